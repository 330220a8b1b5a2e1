package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yamlnext/yls/pkg/console"
	"github.com/yamlnext/yls/pkg/constants"
)

// Watch revalidates the given files whenever they change on disk. Events
// are debounced so editors that write in bursts trigger one check. Blocks
// until SIGINT/SIGTERM.
func (c *Checker) Watch(paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		watched[abs] = true
		// Watch the directory, not the file: editors replace files on
		// save and a file watch dies with the old inode.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
		}
	}

	fmt.Println(console.FormatInfoMessage(fmt.Sprintf("Watching %d files for changes...", len(paths))))

	if err := c.CheckFiles(paths); err != nil {
		fmt.Println(console.FormatWarningMessage(err.Error()))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var debounceTimer *time.Timer
	modified := make(map[string]struct{})
	recheck := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			modified[event.Name] = struct{}{}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(constants.WatchDebounce, func() {
				select {
				case recheck <- struct{}{}:
				default:
				}
			})

		case <-recheck:
			files := make([]string, 0, len(modified))
			for file := range modified {
				c.Invalidate(file)
				files = append(files, file)
			}
			modified = make(map[string]struct{})
			if len(files) == 0 {
				continue
			}
			if err := c.CheckFiles(files); err != nil {
				fmt.Println(console.FormatWarningMessage(err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			fmt.Println(console.FormatWarningMessage(fmt.Sprintf("watcher error: %v", err)))

		case <-sigChan:
			fmt.Println(console.FormatInfoMessage("Stopping watch"))
			return nil
		}
	}
}
