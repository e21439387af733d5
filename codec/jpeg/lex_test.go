/*
NAME
  lex_test.go

DESCRIPTION
  lex_test.go provides testing for the lexer in lex.go.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/ausocean/utils/logging"
)

var jpegTests = []struct {
	name  string
	input []byte
	want  [][]byte
	err   error
}{
	{
		name: "empty",
		err:  io.EOF,
	},
	{
		name:  "null",
		input: []byte{0xff, 0xd8, 0xff, 0xd9},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.EOF,
	},
	{
		name: "full",
		input: []byte{
			0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9,
			0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9,
			0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9,
			0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'f', 'u', 'l', 'l', 0xff, 0xd9},
			{0xff, 0xd8, 'f', 'r', 'a', 'm', 'e', 0xff, 0xd9},
			{0xff, 0xd8, 'w', 'i', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 'l', 'e', 'n', 'g', 't', 'h', 0xff, 0xd9},
			{0xff, 0xd8, 's', 'p', 'r', 'e', 'a', 'd', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "nested",
		input: []byte{
			0xff, 0xd8, 'o', 0xff, 0xd8, 'i', 0xff, 0xd9, 'o', 0xff, 0xd9,
		},
		want: [][]byte{
			{0xff, 0xd8, 'o', 0xff, 0xd8, 'i', 0xff, 0xd9, 'o', 0xff, 0xd9},
		},
		err: io.EOF,
	},
	{
		name: "truncated",
		input: []byte{
			0xff, 0xd8, 'o', 'k', 0xff, 0xd9,
			0xff, 0xd8, 'c', 'u', 't',
		},
		want: [][]byte{{0xff, 0xd8, 'o', 'k', 0xff, 0xd9}},
		err:  io.ErrUnexpectedEOF,
	},
	{
		name:  "odd trailing byte",
		input: []byte{0xff, 0xd8, 0xff, 0xd9, 0xff},
		want:  [][]byte{{0xff, 0xd8, 0xff, 0xd9}},
		err:   io.ErrUnexpectedEOF,
	},
	{
		name:  "garbage",
		input: []byte{'n', 'o', 'p', 'e'},
		err:   ErrNotJPEG,
	},
}

func TestLexer(t *testing.T) {
	Log = (*logging.TestLogger)(t)
	for _, test := range jpegTests {
		l := NewLexer(bytes.NewReader(test.input))
		var got [][]byte
		var err error
		for {
			var img []byte
			img, err = l.Next()
			if err != nil {
				break
			}
			got = append(got, img)
		}
		if !errors.Is(err, test.err) {
			t.Errorf("unexpected error for %q: got:%v want:%v", test.name, err, test.err)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("unexpected result for %q:\ngot :%#v\nwant:%#v", test.name, got, test.want)
		}
	}
}
