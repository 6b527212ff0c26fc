/*
 * Copyright (c) 2016 Salle, Alexandre <alex@alexsalle.com>
 * Author: Salle, Alexandre <alex@alexsalle.com>
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy of
 * this software and associated documentation files (the "Software"), to deal in
 * the Software without restriction, including without limitation the rights to
 * use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
 * the Software, and to permit persons to whom the Software is furnished to do so,
 * subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
 * FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
 * COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
 * IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
 * CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 */

package vlog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNoOpDiscardsSilently(t *testing.T) {
	var l Logger = NoOp()
	l.Debugf("x=%d", 1)
	l.Infof("x=%d", 1)
	l.Warnf("x=%d", 1)
	l.Errorf("x=%d", 1)
}

func TestLogrusLoggerWritesFormattedMessages(t *testing.T) {
	g := NewLogrus(logrus.InfoLevel)
	var buf bytes.Buffer
	g.l.SetOutput(&buf)
	g.l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	var l Logger = g
	l.Infof("processed %d sentences", 42)

	if !strings.Contains(buf.String(), "processed 42 sentences") {
		t.Errorf("output = %q, want to contain the formatted message", buf.String())
	}
}

func TestLogrusLoggerRespectsLevel(t *testing.T) {
	g := NewLogrus(logrus.WarnLevel)
	var buf bytes.Buffer
	g.l.SetOutput(&buf)

	g.Debugf("hidden")
	if buf.Len() != 0 {
		t.Errorf("Debugf below configured level wrote output: %q", buf.String())
	}
}
