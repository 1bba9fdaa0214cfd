package tools

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

// ExtractFile extracts the entry named fileName from the archive into
// destDir and returns the extracted path. The archive format is chosen
// by extension: .tar.gz/.tgz, .zip, or a raw binary copied as-is.
// destDir must already exist.
func ExtractFile(archivePath, destDir, fileName string) (string, error) {
	info, err := os.Stat(destDir)
	if err != nil || !info.IsDir() {
		return "", errors.New("H223").
			WithDetail("Destination " + destDir + " is not an existing directory")
	}

	switch {
	case strings.HasSuffix(archivePath, ".tar.gz"), strings.HasSuffix(archivePath, ".tgz"):
		return extractTarGz(archivePath, destDir, fileName)
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir, fileName)
	default:
		return copyRaw(archivePath, destDir, fileName)
	}
}

func extractTarGz(archivePath, destDir, fileName string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", errors.New("H220").Wrap(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", errors.New("H221").Wrap(err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.New("H221").Wrap(err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if filepath.Base(hdr.Name) != fileName {
			continue
		}
		return writeEntry(tr, destDir, fileName)
	}

	return "", errors.New("H221").
		WithDetail("File " + fileName + " not found in " + filepath.Base(archivePath))
}

func extractZip(archivePath, destDir, fileName string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", errors.New("H221").Wrap(err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if filepath.Base(entry.Name) != fileName {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return "", errors.New("H221").Wrap(err)
		}
		path, err := writeEntry(rc, destDir, fileName)
		rc.Close()
		return path, err
	}

	return "", errors.New("H221").
		WithDetail("File " + fileName + " not found in " + filepath.Base(archivePath))
}

// copyRaw treats the download as the binary itself.
func copyRaw(archivePath, destDir, fileName string) (string, error) {
	src, err := os.Open(archivePath)
	if err != nil {
		return "", errors.New("H220").Wrap(err)
	}
	defer src.Close()
	return writeEntry(src, destDir, fileName)
}

// writeEntry writes r to destDir/fileName via a temp file and rename.
func writeEntry(r io.Reader, destDir, fileName string) (string, error) {
	destPath := filepath.Join(destDir, fileName)
	tmp, err := os.CreateTemp(destDir, fileName+"-*")
	if err != nil {
		return "", errors.New("H220").Wrap(err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.New("H220").Wrap(err)
	}
	tmp.Close()

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		os.Remove(tmp.Name())
		return "", errors.New("H220").Wrap(err)
	}
	return destPath, nil
}
