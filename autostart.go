package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

// launchAtLogin describes the login entry. The app starts in the tray when
// launched from it.
func launchAtLogin() (*autostart.App, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	return &autostart.App{
		Name:        "agenda",
		DisplayName: "Agenda",
		Exec:        []string{execPath, "--hidden"},
	}, nil
}

// setupAutostart makes the login entry match enable
func setupAutostart(enable bool) error {
	entry, err := launchAtLogin()
	if err != nil {
		return err
	}

	switch {
	case enable && !entry.IsEnabled():
		if err := entry.Enable(); err != nil {
			log.Printf("Failed to enable autostart: %v", err)
			return err
		}
		log.Println("Autostart enabled")
	case !enable && entry.IsEnabled():
		if err := entry.Disable(); err != nil {
			log.Printf("Failed to disable autostart: %v", err)
			return err
		}
		log.Println("Autostart disabled")
	}

	return nil
}
