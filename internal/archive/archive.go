package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// sqliteSidecars are the files sqlite keeps next to a database.
var sqliteSidecars = []string{"-wal", "-shm", "-journal"}

// ArchiveDatabase moves the database file, and any sqlite sidecar files,
// into archive/vocab-<timestamp>/ next to it. The next run starts with a
// freshly seeded database. It returns the archive directory.
func ArchiveDatabase(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", dbPath)
	}

	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := filepath.Base(dbPath)
	name := trimExt(base)
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, time.Now().Format("20060102-150405")))

	// Two archives within one second get microseconds appended.
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s", name, time.Now().Format("20060102-150405.000000")))
	}
	if err := os.Mkdir(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}

	if err := os.Rename(dbPath, filepath.Join(archivePath, base)); err != nil {
		return "", fmt.Errorf("failed to archive database: %w", err)
	}
	for _, suffix := range sqliteSidecars {
		src := dbPath + suffix
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, filepath.Join(archivePath, base+suffix)); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", filepath.Base(src), err)
		}
	}

	return archivePath, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
