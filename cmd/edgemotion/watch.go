/*
DESCRIPTION
  watch.go provides watching of the config file for changes.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"fmt"
	"path/filepath"

	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/edgemotion/config"
)

// watch calls update with the variables of the config file at path each
// time it is written. The directory is watched rather than the file so that
// editors which replace the file are handled. The returned function stops
// watching.
func watch(log logging.Logger, path string, update func(map[string]string) error) (func(), error) {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create watcher: %w", err)
	}
	err = w.Add(filepath.Dir(path))
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("could not watch %s: %w", filepath.Dir(path), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				vars, err := config.ReadVarsFile(path)
				if err != nil {
					log.Warning("could not read config file", "path", path, "error", err.Error())
					continue
				}
				log.Info("config file changed", "path", path)
				err = update(vars)
				if err != nil {
					log.Error("could not update config", "error", err.Error())
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warning("config watcher error", "error", err.Error())
			}
		}
	}()

	return func() {
		w.Close()
		<-done
	}, nil
}
