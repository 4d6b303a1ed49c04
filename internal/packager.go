package tools

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// sourceFile is the transient record for one file being packaged: its
// original relative path, the TeX-escaped form for display, and the
// flattened filename it is copied to.
type sourceFile struct {
	Original string
	Escaped  string
	Modified string
}

func newSourceFile(relPath string) sourceFile {
	return sourceFile{
		Original: relPath,
		Escaped:  strings.NewReplacer("\\", "/", "_", "\\_").Replace(relPath),
		Modified: strings.NewReplacer("/", "-", "\\", "-", "_", "-").Replace(relPath),
	}
}

// Packager copies recognised source files into a flat output directory
// and generates TeX inclusion directives for them, section by section.
type Packager struct {
	cfg PackageConfig
	fs  afero.Fs
	log *logrus.Logger
}

func NewPackager(cfg PackageConfig, fs afero.Fs, log *logrus.Logger) *Packager {
	return &Packager{cfg: cfg, fs: fs, log: log}
}

// Run clears and recreates the output directory, then processes every
// configured section in order. Any filesystem error aborts the run.
func (p *Packager) Run() error {
	if err := p.fs.RemoveAll(p.cfg.OutputDir); err != nil {
		return fmt.Errorf("clearing output directory %s: %w", p.cfg.OutputDir, err)
	}
	if err := p.fs.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", p.cfg.OutputDir, err)
	}

	main, err := p.fs.Create(path.Join(p.cfg.OutputDir, "src.tex"))
	if err != nil {
		return fmt.Errorf("creating src.tex: %w", err)
	}
	defer main.Close()

	var tests afero.File
	if p.cfg.SeparateTests {
		tests, err = p.fs.Create(path.Join(p.cfg.OutputDir, "tests.tex"))
		if err != nil {
			return fmt.Errorf("creating tests.tex: %w", err)
		}
		defer tests.Close()
	}

	for _, sec := range p.cfg.Sections {
		if err := p.packageSection(sec, main, tests); err != nil {
			return err
		}
	}

	return nil
}

// packageSection emits the section header into every stream, then walks
// the section's directory and packages each recognised file. Headers are
// written even for sections that contribute no files.
func (p *Packager) packageSection(sec Section, main, tests afero.File) error {
	header := fmt.Sprintf("\\subsection{%s}\n", sec.Title)
	if _, err := main.WriteString(header); err != nil {
		return fmt.Errorf("writing section header for %s: %w", sec.Dir, err)
	}
	if tests != nil {
		if _, err := tests.WriteString(header); err != nil {
			return fmt.Errorf("writing section header for %s: %w", sec.Dir, err)
		}
	}

	walk := func(walkPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !p.recognised(info.Name()) {
			return nil
		}

		rec := newSourceFile(walkPath)
		if err := p.copyFile(rec); err != nil {
			return err
		}

		stream := main
		if tests != nil && strings.Contains(rec.Original, "tests") {
			stream = tests
		}
		entry := fmt.Sprintf("\\subsubsection{%s}\n\\inputminted[breaklines]{%s}{%s/%s}\n\n",
			rec.Escaped, p.cfg.Language, p.cfg.OutputDir, rec.Modified)
		if _, err := stream.WriteString(entry); err != nil {
			return fmt.Errorf("writing inclusion entry for %s: %w", rec.Original, err)
		}

		p.log.Debugf("packaged %s as %s", rec.Original, rec.Modified)
		return nil
	}

	if err := afero.Walk(p.fs, sec.Dir, walk); err != nil {
		return fmt.Errorf("walking %s: %w", sec.Dir, err)
	}
	return nil
}

// recognised reports whether name carries one of the configured source
// extensions.
func (p *Packager) recognised(name string) bool {
	for _, ext := range p.cfg.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// copyFile copies the file's bytes into the output directory under its
// flattened name.
func (p *Packager) copyFile(rec sourceFile) error {
	data, err := afero.ReadFile(p.fs, rec.Original)
	if err != nil {
		return fmt.Errorf("reading %s: %w", rec.Original, err)
	}
	dst := path.Join(p.cfg.OutputDir, rec.Modified)
	if err := afero.WriteFile(p.fs, dst, data, 0o644); err != nil {
		return fmt.Errorf("copying %s to %s: %w", rec.Original, dst, err)
	}
	return nil
}
