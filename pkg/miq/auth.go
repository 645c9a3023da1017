// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package miq

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Auth holds API credentials. A token wins over user and password.
type Auth struct {
	Token    string
	User     string
	Password string
}

// IsZero reports whether no credentials are set.
func (a Auth) IsZero() bool {
	return a.Token == "" && a.User == ""
}

func (a Auth) apply(req *http.Request) {
	switch {
	case a.Token != "":
		req.Header.Set("X-Auth-Token", a.Token)
	case a.User != "":
		req.SetBasicAuth(a.User, a.Password)
	}
}

// TokenPath returns where a saved API token is read from.
func TokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".v2v-overview", "miq-token")
}

// LoadToken reads a saved token. A missing file yields "".
func LoadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
