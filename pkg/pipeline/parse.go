package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"time"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/kin"
	"github.com/pedigraph/pedigraph/pkg/observability"
)

// Parse reads the family document named by the options and returns the
// indexed graph together with the resolved root person ID.
//
// The root resolves in order: opts.Root, then the document's declared
// root. A document with neither is an error, as is a root ID that
// names nobody in the graph. When opts.MaxDegree is non-negative the
// graph is clipped to persons within that many relationship steps of
// the root before anything downstream sees it.
func Parse(ctx context.Context, opts Options) (*kin.Graph, string, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, "", err
	}

	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, opts.Source())

	g, rootID, err := parseDocument(opts)
	if err == nil {
		rootID, err = resolveRoot(g, rootID, opts.Root)
	}
	if err == nil && opts.MaxDegree >= 0 {
		g = g.WithinDegree(rootID, opts.MaxDegree)
	}

	personCount := 0
	if err == nil {
		personCount = g.Count()
	}
	observability.Pipeline().OnParseComplete(ctx, opts.Source(), personCount, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	opts.Logger.Debug("parsed family document",
		"source", opts.Source(),
		"persons", personCount,
		"root", rootID)
	return g, rootID, nil
}

// parseDocument decodes the document from disk or from the inline
// bytes, whichever the options carry.
func parseDocument(opts Options) (*kin.Graph, string, error) {
	if opts.Path != "" {
		g, rootID, err := graph.ReadGraphFile(opts.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, "", apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "family document %q not found", opts.Path)
			}
			return nil, "", apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "read family document %q", opts.Path)
		}
		return g, rootID, nil
	}

	g, rootID, err := graph.ReadGraph(bytes.NewReader(opts.Document))
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "decode family document")
	}
	return g, rootID, nil
}

// resolveRoot picks the layout root: an explicit override wins over
// the document's declared root.
func resolveRoot(g *kin.Graph, declared, override string) (string, error) {
	rootID := override
	if rootID == "" {
		rootID = declared
	}
	if rootID == "" {
		return "", apperrors.New(apperrors.ErrCodeUnknownRoot, "no root person: declare one in the document or set an explicit root")
	}
	if !g.Contains(rootID) {
		return "", apperrors.New(apperrors.ErrCodeUnknownRoot, "root person %q is not in the graph", rootID)
	}
	return rootID, nil
}
