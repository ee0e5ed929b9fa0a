package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the bursts of events an editor produces for one
// save into a single rebuild.
const watchDebounce = 100 * time.Millisecond

// watch builds p once and then again after every change to its script,
// until ctx is done. The script's directory is watched rather than the file
// itself, so saves that replace the file are seen too.
func watch(ctx context.Context, p *pipeline) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		p.log.Error("create file watcher", "err", err)
		return exitFail
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(p.script)); err != nil {
		p.log.Error("watch script directory", "err", err)
		return exitFail
	}

	p.build()
	p.log.Info("watching", "script", p.script)

	target := filepath.Clean(p.script)
	rebuild := time.NewTimer(watchDebounce)
	rebuild.Stop()
	defer rebuild.Stop()

	for {
		select {
		case <-ctx.Done():
			return exitOK
		case event, ok := <-watcher.Events:
			if !ok {
				return exitOK
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				rebuild.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return exitOK
			}
			p.log.Warn("file watcher", "err", err)
		case <-rebuild.C:
			p.build()
		}
	}
}
