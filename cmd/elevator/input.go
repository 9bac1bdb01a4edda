package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/eiannone/keyboard"
)

var errInterrupted = errors.New("interrupted")

// input is a console.LineReader that can report the line being typed.
type input interface {
	ReadLine() (string, error)
	Pending() string
	Close() error
}

// keyInput reads raw keys so a redraw can repaint a half-typed command.
type keyInput struct {
	echo io.Writer

	mu  sync.Mutex
	buf []rune
}

func openKeyInput(echo io.Writer) (*keyInput, error) {
	if err := keyboard.Open(); err != nil {
		return nil, err
	}
	return &keyInput{echo: echo}, nil
}

func (k *keyInput) ReadLine() (string, error) {
	for {
		ch, key, err := keyboard.GetKey()
		if err != nil {
			return "", err
		}

		switch key {
		case keyboard.KeyCtrlC, keyboard.KeyCtrlD:
			return "", errInterrupted
		case keyboard.KeyEnter:
			k.mu.Lock()
			line := string(k.buf)
			k.buf = k.buf[:0]
			k.mu.Unlock()
			fmt.Fprint(k.echo, "\n")
			return line, nil
		case keyboard.KeyBackspace, keyboard.KeyBackspace2:
			k.mu.Lock()
			n := len(k.buf)
			if n > 0 {
				k.buf = k.buf[:n-1]
			}
			k.mu.Unlock()
			if n > 0 {
				fmt.Fprint(k.echo, "\b \b")
			}
			continue
		case keyboard.KeySpace:
			ch = ' '
		}

		if ch == 0 {
			continue
		}
		k.mu.Lock()
		k.buf = append(k.buf, ch)
		k.mu.Unlock()
		fmt.Fprint(k.echo, string(ch))
	}
}

func (k *keyInput) Pending() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return string(k.buf)
}

func (k *keyInput) Close() error {
	return keyboard.Close()
}

// lineInput is the fallback for scripted or non-terminal use.
type lineInput struct {
	sc *bufio.Scanner
}

func newLineInput(r io.Reader) *lineInput {
	return &lineInput{sc: bufio.NewScanner(r)}
}

func (l *lineInput) ReadLine() (string, error) {
	if !l.sc.Scan() {
		if err := l.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return l.sc.Text(), nil
}

func (l *lineInput) Pending() string { return "" }

func (l *lineInput) Close() error { return nil }

// crlfWriter restores carriage returns while the terminal is in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
