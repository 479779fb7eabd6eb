// Package secret obtains the one high-entropy key written into a generated
// project's environment file.
package secret

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os/exec"
	"strings"

	"github.com/phravins/pyscaffold/internal/scaffold"
	"github.com/phravins/pyscaffold/pkg/utils"
)

// Source produces a fresh secret on every call.
type Source interface {
	Generate(ctx context.Context) (string, error)
}

const (
	// DjangoAlphabet is the character set of Django's get_random_secret_key.
	DjangoAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*(-_=+)"
	// DefaultLength matches Django's generated key length.
	DefaultLength = 50

	DjangoScript = "from django.core.management.utils import get_random_secret_key; print(get_random_secret_key())"
	TokenScript  = "import secrets; print(secrets.token_urlsafe(50))"
)

// Source kinds accepted by New.
const (
	KindPython = "python"
	KindRand   = "rand"
)

// RandSource draws characters uniformly from Alphabet with crypto/rand.
type RandSource struct {
	Length   int
	Alphabet string
	Reader   io.Reader
}

func NewRandSource() RandSource {
	return RandSource{Length: DefaultLength, Alphabet: DjangoAlphabet}
}

func (s RandSource) Generate(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", scaffold.Wrap(scaffold.KindExternal, "generate secret", "", err)
	}
	alphabet, n := s.Alphabet, s.Length
	if alphabet == "" {
		alphabet = DjangoAlphabet
	}
	if n <= 0 {
		n = DefaultLength
	}
	reader := s.Reader
	if reader == nil {
		reader = rand.Reader
	}

	limit := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(reader, limit)
		if err != nil {
			return "", scaffold.Wrap(scaffold.KindExternal, "generate secret", "", err)
		}
		b.WriteByte(alphabet[idx.Int64()])
	}
	return b.String(), nil
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// PythonSource runs a one-line script with a Python interpreter and takes the
// last line of its standard output as the secret, so banners printed by
// sitecustomize or interpreter shims never end up in the key.
type PythonSource struct {
	Interpreter string
	Script      string
	run         runFunc
}

func NewPythonSource(interpreter, script string) *PythonSource {
	return &PythonSource{Interpreter: interpreter, Script: script, run: runCommand}
}

func (s *PythonSource) Generate(ctx context.Context) (string, error) {
	run := s.run
	if run == nil {
		run = runCommand
	}
	out, err := run(ctx, s.Interpreter, "-c", s.Script)
	if err != nil {
		return "", scaffold.Wrap(scaffold.KindExternal, "run "+s.Interpreter, "", err)
	}
	key := strings.TrimSpace(lastLine(strings.TrimSpace(string(out))))
	if key == "" {
		return "", scaffold.Wrap(scaffold.KindExternal, "run "+s.Interpreter, "", scaffold.ErrEmptySecret)
	}
	return key, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("%w: %s", err, lastLine(msg))
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return out, nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

var pythonFallbacks = []string{
	"/usr/local/bin/python3*",
	"/opt/homebrew/bin/python3*",
	`C:\Python3*\python.exe`,
}

// FindPython resolves the interpreter to run. A configured path wins;
// otherwise python, python3 and py are tried on PATH.
func FindPython(configured string) (string, error) {
	if configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", scaffold.Wrap(scaffold.KindExternal, "find python", configured, err)
		}
		return path, nil
	}
	for _, c := range []string{"python", "python3", "py"} {
		if path := utils.FindExecutable(c, nil); path != "" {
			return path, nil
		}
	}
	if path := utils.FindExecutable("python3", pythonFallbacks); path != "" {
		return path, nil
	}
	return "", scaffold.Errorf(scaffold.KindExternal, "find python", "",
		"python is not installed or not in PATH (tried python, python3, py)")
}

// New returns the source of the given kind for a flavor. The python kind
// resolves its interpreter immediately so a missing Python fails before any
// file is written.
func New(kind, flavor, pythonPath string) (Source, error) {
	switch kind {
	case "", KindPython:
		interp, err := FindPython(pythonPath)
		if err != nil {
			return nil, err
		}
		script := TokenScript
		if flavor == "django" {
			script = DjangoScript
		}
		return NewPythonSource(interp, script), nil
	case KindRand:
		return NewRandSource(), nil
	}
	return nil, scaffold.Errorf(scaffold.KindConfig, "select secret source", "", "unknown secret source %q (want %s or %s)", kind, KindPython, KindRand)
}
