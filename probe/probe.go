// Package probe looks up version metadata for installed executables.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Info is the result of a successful version probe.
type Info struct {
	AppName  string
	Major    int
	Minor    int
	Build    int
	Revision int
}

// Version renders the probed version as a dotted string.
func (i Info) Version() string {
	return fmt.Sprintf("%d.%d.%d.%d", i.Major, i.Minor, i.Build, i.Revision)
}

// ProbeError wraps a failed version lookup for one executable.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("version probe of %s failed: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Prober resolves version metadata for an executable. Scan flows treat a
// probe failure as "skip this candidate", not as a scan failure.
type Prober interface {
	Probe(ctx context.Context, executablePath string) (Info, error)
}

// ExecProbe asks the executable itself by running it with a version flag
// and parsing the first dotted version number it prints.
type ExecProbe struct {
	Flag    string        // defaults to "--version"
	Timeout time.Duration // defaults to 5s
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

func (p ExecProbe) Probe(ctx context.Context, executablePath string) (Info, error) {
	flag := p.Flag
	if flag == "" {
		flag = "--version"
	}
	timeout := p.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, executablePath, flag).CombinedOutput()
	if err != nil && len(out) == 0 {
		return Info{}, &ProbeError{Path: executablePath, Err: err}
	}

	info, ok := parseVersionOutput(executablePath, out)
	if !ok {
		return Info{}, &ProbeError{Path: executablePath, Err: fmt.Errorf("no version string in output")}
	}
	return info, nil
}

func parseVersionOutput(executablePath string, out []byte) (Info, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		m := versionPattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		info := Info{AppName: appNameFromPath(executablePath)}
		info.Major = atoiOrZero(m[1])
		info.Minor = atoiOrZero(m[2])
		info.Build = atoiOrZero(m[3])
		info.Revision = atoiOrZero(m[4])
		return info, true
	}
	return Info{}, false
}

func appNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
