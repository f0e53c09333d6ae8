package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes payload to path through a temporary file in the
// same directory and renames it into place, so readers never observe a
// half-written artifact.
func WriteFileAtomic(path string, payload []byte) error {
	return WriteFileAtomicFunc(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(payload))
		return err
	})
}

// WriteFileAtomicFunc 書き込み処理 fn の結果をアトミックに path へ配置する
func WriteFileAtomicFunc(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	filename := filepath.Base(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filename+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	tmpClosed := false

	success := false
	defer func() {
		if !success {
			if !tmpClosed {
				_ = tmp.Close()
			}
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	tmpClosed = true
	// CreateTemp は 0600 で作るので通常のファイルと同じ権限に揃える
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		// On Windows, os.Rename can fail if destination exists.
		if _, statErr := os.Stat(path); statErr != nil {
			return fmt.Errorf("failed to rename temp file: %w", err)
		}
		backupPath := path + ".bak.tmp"
		_ = os.Remove(backupPath)
		if backupErr := os.Rename(path, backupPath); backupErr != nil {
			return fmt.Errorf("failed to backup existing file: %w (original rename err: %v)", backupErr, err)
		}
		if renameErr := os.Rename(tmpName, path); renameErr != nil {
			_ = os.Rename(backupPath, path)
			return fmt.Errorf("failed to rename temp file after backup: %w", renameErr)
		}
		_ = os.Remove(backupPath)
	}

	success = true
	return nil
}
