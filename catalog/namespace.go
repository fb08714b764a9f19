// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package catalog

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// Namespace identifies one of the independent statistics catalogues. Names
// are unique within a namespace but may be reused across namespaces.
type Namespace uint8

const (
	// Connection statistics are maintained for the whole engine instance.
	Connection Namespace = iota
	// DataSource statistics are maintained per data source (table, index or
	// file handle).
	DataSource
	// Session statistics are maintained per session.
	Session
	// Join statistics are maintained per join cursor.
	Join

	// NumNamespaces is the number of namespaces; namespaces can be used with
	// the range keyword.
	NumNamespaces
)

var namespaceNames = [NumNamespaces]string{
	Connection: "connection",
	DataSource: "data-source",
	Session:    "session",
	Join:       "join",
}

func (n Namespace) String() string {
	if n < NumNamespaces {
		return namespaceNames[n]
	}
	return fmt.Sprintf("invalid(%d)", uint8(n))
}

// SafeFormat implements redact.SafeFormatter.
func (n Namespace) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Print(redact.SafeString(n.String()))
}

// ParseNamespace returns the namespace with the given name.
func ParseNamespace(s string) (Namespace, error) {
	for i, name := range namespaceNames {
		if name == s {
			return Namespace(i), nil
		}
	}
	return 0, errors.Newf("statsreg: unknown statistics namespace %q", s)
}
