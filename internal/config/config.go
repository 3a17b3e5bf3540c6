// Package config loads QRZ.com credentials from the user's ~/.qrz file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials are the QRZ.com login name and password for the XML API.
type Credentials struct {
	Username string
	Password string
}

// credentialsFile models the ~/.qrz JSON document.
//
// The login name may appear under "login", "username", or "email"; the password is always under "api".
//
// Example:
//
//	{ "login": "N1JFU", "api": "your_qrz_password" }
type credentialsFile struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	API      string `json:"api"`
}

// DefaultPath returns the credentials file location, ~/.qrz.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory error: %w", err)
	}
	return filepath.Join(home, ".qrz"), nil
}

// Load reads credentials from the file at path. If path is empty, DefaultPath is used.
func Load(path string) (Credentials, error) {
	var c Credentials

	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return c, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf(`read credentials file "%s" error: %w`, path, err)
	}

	var f credentialsFile
	if err = json.Unmarshal(data, &f); err != nil {
		return c, fmt.Errorf(`parse credentials file "%s" error: %w`, path, err)
	}

	switch {
	case f.Login != "":
		c.Username = f.Login
	case f.Username != "":
		c.Username = f.Username
	default:
		c.Username = f.Email
	}
	c.Password = f.API

	if c.Username == "" || c.Password == "" {
		return c, fmt.Errorf(`"%s" must contain "login" (or "username"/"email") and "api"`, path)
	}

	return c, nil
}
