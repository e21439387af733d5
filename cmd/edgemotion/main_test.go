/*
DESCRIPTION
  main_test.go provides testing for config loading and watching.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/edgemotion/config"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edgemotion.conf")
	err := os.WriteFile(path, []byte("# Test config.\nInputPath=/dev/video0\nMinArea=200\nOutputPath=a.mjpeg\n"), 0644)
	if err != nil {
		t.Fatalf("could not write config: %v", err)
	}
	log := (*logging.TestLogger)(t)

	cfg, err := loadConfig(log, logging.Info, path, "", "")
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if cfg.InputPath != "/dev/video0" || cfg.Input != config.InputCapture || cfg.MinArea != 200 || cfg.OutputPath != "a.mjpeg" {
		t.Errorf("unexpected config from file: %+v", cfg)
	}

	cfg, err = loadConfig(log, logging.Info, path, "clip.mjpeg", "b.mjpeg")
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if cfg.InputPath != "clip.mjpeg" || cfg.Input != config.InputFile || cfg.OutputPath != "b.mjpeg" {
		t.Errorf("arguments did not take precedence: %+v", cfg)
	}

	cfg, err = loadConfig(log, logging.Info, "", "", "")
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}
	if cfg.InputPath != config.DefaultInputPath {
		t.Errorf("got input path %q, want %q", cfg.InputPath, config.DefaultInputPath)
	}

	_, err = loadConfig(log, logging.Info, filepath.Join(dir, "missing.conf"), "", "")
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edgemotion.conf")
	err := os.WriteFile(path, []byte("MinArea=100\n"), 0644)
	if err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	got := make(chan map[string]string, 10)
	stop, err := watch((*logging.TestLogger)(t), path, func(vars map[string]string) error {
		got <- vars
		return nil
	})
	if err != nil {
		t.Fatalf("did not expect error from watch: %v", err)
	}
	defer stop()

	// Writes to other files in the directory are ignored.
	err = os.WriteFile(filepath.Join(dir, "other"), []byte("MinArea=1\n"), 0644)
	if err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	err = os.WriteFile(path, []byte("MinArea=300\n"), 0644)
	if err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	timeout := time.After(5 * time.Second)
	for {
		select {
		case vars := <-got:
			if vars[config.KeyMinArea] == "1" {
				t.Fatal("update from unrelated file")
			}
			// A write may be seen before its data; wait for the final content.
			if vars[config.KeyMinArea] == "300" {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for config update")
		}
	}
}
