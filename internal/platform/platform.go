package platform

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/shinji-kodama/overcast-launcher/internal/model"
)

// osReleasePaths are checked in order; the first readable file wins.
// /usr/lib/os-release is the fallback named by the os-release manual.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Detect returns the current platform. On Linux it also reads the
// distribution identity from os-release. A missing os-release file is
// not an error: the platform simply has no distribution fields.
func Detect() model.Platform {
	return detect(runtime.GOOS, osReleasePaths)
}

func detect(goos string, paths []string) model.Platform {
	p := model.Platform{OS: goos}
	if goos != "linux" {
		return p
	}

	for _, path := range paths {
		fields, err := readOSRelease(path)
		if err != nil {
			continue
		}
		p.ID = strings.ToLower(fields["ID"])
		p.IDLike = strings.Fields(strings.ToLower(fields["ID_LIKE"]))
		p.PrettyName = fields["PRETTY_NAME"]
		break
	}
	return p
}

func readOSRelease(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseOSRelease(f)
}

// parseOSRelease reads the KEY=value lines of an os-release file.
// Values may be double-quoted, single-quoted or bare; comments and
// blank lines are skipped. Malformed lines are ignored.
func parseOSRelease(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		fields[key] = unquote(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read os-release: %w", err)
	}
	if len(fields) == 0 {
		return nil, errors.New("os-release contains no fields")
	}
	return fields, nil
}

func unquote(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		if s, err := strconv.Unquote(value); err == nil {
			return s
		}
		return value[1 : len(value)-1]
	}
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}
