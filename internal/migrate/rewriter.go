package migrate

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"git.home.luguber.info/inful/actiondocs/internal/content"
	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/metrics"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// defaultChunkSize bounds how much raw input the decoder holds at once.
const defaultChunkSize = 32 * 1024

// Rewriter translates one tool's marker syntax into canonical markers
// and normalizes the result. The zero value is not usable; construct
// with NewRewriter.
type Rewriter struct {
	tool      ToolConfig
	chunkSize int
	recorder  metrics.Recorder
}

// NewRewriter returns a rewriter for the given tool config.
func NewRewriter(tool ToolConfig) *Rewriter {
	return &Rewriter{tool: tool, chunkSize: defaultChunkSize, recorder: metrics.NoopRecorder{}}
}

// SetRecorder injects the metrics recorder for completed migrations.
func (r *Rewriter) SetRecorder(rec metrics.Recorder) {
	if rec != nil {
		r.recorder = rec
	}
}

// Rewrite runs the full migration pipeline over src: streaming marker
// substitution, merging of consecutive same-identifier spans, and
// insertion of missing canonical sections. The returned document always
// contains every canonical section.
func (r *Rewriter) Rewrite(ctx context.Context, src io.Reader) (content.Content, error) {
	substituted, err := r.substitute(ctx, src)
	if err != nil {
		r.recorder.IncError(string(errors.GetCategory(err)))
		return content.Empty, err
	}
	merged := MergeConsecutive(substituted)
	r.recorder.IncMigration(r.tool.Name)
	return FillMissing(merged), nil
}

// substitute streams src line by line through an incremental UTF-8
// decoder (BOM tolerant) and replaces the tool's markers with canonical
// ones. End markers are replaced before start markers so a start
// replacement cannot re-match inside an unprocessed end marker on the
// same line. Unmapped section names are elided.
func (r *Rewriter) substitute(ctx context.Context, src io.Reader) (content.Content, error) {
	decoder := unicode.UTF8.NewDecoder()
	reader := bufio.NewReaderSize(
		transform.NewReader(src, unicode.BOMOverride(decoder)), r.chunkSize)

	var out bytes.Buffer
	toggleCount := 0

	for {
		if err := ctx.Err(); err != nil {
			return content.Empty, err
		}
		line, err := reader.ReadString('\n')
		if line != "" {
			replaced := r.substituteLine(line, &toggleCount)
			out.WriteString(replaced)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return content.Empty, errors.Wrap(err, errors.CategoryMigrate, errors.SeverityError, "read source document")
		}
	}

	if r.tool.SameMarker && toggleCount%2 != 0 {
		return content.Empty, errors.New(errors.CategoryMigrate, errors.SeverityError,
			fmt.Sprintf("tool %q emitted %d markers; identical start/end markers must come in pairs", r.tool.Name, toggleCount))
	}
	return content.FromBytes(append([]byte(nil), out.Bytes()...)), nil
}

func (r *Rewriter) substituteLine(line string, toggleCount *int) string {
	if r.tool.SameMarker {
		return r.tool.Start.ReplaceAllStringFunc(line, func(m string) string {
			name := r.sectionName(r.tool.Start, m)
			start := *toggleCount%2 == 0
			*toggleCount++
			id, ok := r.tool.Sections[name]
			if !ok {
				slog.Debug("Dropping unmapped marker", "tool", r.tool.Name, "name", name)
				return ""
			}
			if start {
				return section.Start(id)
			}
			return section.End(id)
		})
	}

	// End before start: a start replacement must never re-match inside a
	// not-yet-processed end marker on the same line.
	line = r.tool.End.ReplaceAllStringFunc(line, func(m string) string {
		name := r.sectionName(r.tool.End, m)
		id, ok := r.tool.Sections[name]
		if !ok {
			slog.Debug("Dropping unmapped marker", "tool", r.tool.Name, "name", name)
			return ""
		}
		return section.End(id)
	})
	return r.tool.Start.ReplaceAllStringFunc(line, func(m string) string {
		name := r.sectionName(r.tool.Start, m)
		id, ok := r.tool.Sections[name]
		if !ok {
			slog.Debug("Dropping unmapped marker", "tool", r.tool.Name, "name", name)
			return ""
		}
		return section.Start(id)
	})
}

func (r *Rewriter) sectionName(re *regexp.Regexp, match string) string {
	groups := re.FindStringSubmatch(match)
	if len(groups) < 2 {
		return ""
	}
	return strings.ToLower(groups[1])
}
