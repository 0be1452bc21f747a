// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package logger

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logrus adapts a logrus logger to LogFunc. Keyvals are read as
// alternating key/value pairs; a dangling key is logged under "extra".
func Logrus(l *logrus.Logger) LogFunc {
	return func(level LogLevel, msg string, keyvals ...interface{}) {
		entry := l.WithFields(fields(keyvals))
		switch level {
		case ErrorLevel:
			entry.Error(msg)
		case WarnLevel:
			entry.Warn(msg)
		default:
			entry.Debug(msg)
		}
	}
}

func fields(keyvals []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 >= len(keyvals) {
			f["extra"] = keyvals[i]
			break
		}
		f[fmt.Sprint(keyvals[i])] = keyvals[i+1]
	}
	return f
}
