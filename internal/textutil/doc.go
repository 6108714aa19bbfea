// Package textutil provides string sanitization helpers for deriving safe
// filesystem names from caller-supplied values such as tenant identifiers
// and uploaded archive names.
package textutil
