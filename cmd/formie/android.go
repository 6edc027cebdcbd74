//go:build android

package main

// Go's resolver reads /etc/resolv.conf, which Android does not ship.
import _ "github.com/mtibben/androiddnsfix"
