// Package watcher recomputes coverage whenever a word-list file changes.
//
// The Watcher subscribes to the file's parent directory with fsnotify so
// that editors which save by writing a temporary file and renaming it over
// the original are still seen. Bursts of events are debounced into a single
// reload. Each reload reads the TSV file, computes the coverage matrix and
// hands the result to a Handler. With WithStore the reloaded list is also
// re-imported, so the database always reflects the file on disk.
//
// Example usage:
//
//	w, err := watcher.New("data/polynesian.tsv", func(u watcher.Update) {
//		if u.Err != nil {
//			log.Println(u.Err)
//			return
//		}
//		fmt.Println("minimal coverage:", u.Matrix.MinCoverage())
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := w.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer w.Stop()
package watcher
