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

import "github.com/sirupsen/logrus"

// LogrusLogger adapts a *logrus.Logger to the Logger interface.
type LogrusLogger struct {
	l *logrus.Logger
}

// NewLogrus builds a Logger backed by logrus, writing to stderr with the
// given level.
func NewLogrus(level logrus.Level) *LogrusLogger {
	l := logrus.New()
	l.SetLevel(level)
	return &LogrusLogger{l: l}
}

func (g *LogrusLogger) Debugf(format string, args ...interface{}) { g.l.Debugf(format, args...) }
func (g *LogrusLogger) Infof(format string, args ...interface{})  { g.l.Infof(format, args...) }
func (g *LogrusLogger) Warnf(format string, args ...interface{})  { g.l.Warnf(format, args...) }
func (g *LogrusLogger) Errorf(format string, args ...interface{}) { g.l.Errorf(format, args...) }

var _ Logger = (*LogrusLogger)(nil)
