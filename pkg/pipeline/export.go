package pipeline

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/pedigraph/pedigraph/pkg/errors"
	"github.com/pedigraph/pedigraph/pkg/export"
	"github.com/pedigraph/pedigraph/pkg/graph"
	"github.com/pedigraph/pedigraph/pkg/observability"
)

// Export renders a layout document into every requested format and
// returns the artifacts keyed by format name.
func Export(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnExportStart(ctx, format)

		data, err := exportFormat(l, format, opts)
		observability.Pipeline().OnExportComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}

	opts.Logger.Debug("exported layout", "formats", opts.Formats)
	return artifacts, nil
}

func exportFormat(l graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(export.ToDOT(l, opts.exportOptions())), nil
	case FormatSVG:
		return export.RenderSVG(export.ToDOT(l, opts.exportOptions()))
	case FormatPNG:
		return export.RenderPNG(export.ToDOT(l, opts.exportOptions()))
	case FormatJSON:
		return graph.MarshalLayout(l)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unknown format: %q", format)
	}
}

// exportOptions maps the pipeline options onto the exporter's.
func (o *Options) exportOptions() export.Options {
	return export.Options{Detailed: o.Detailed}
}
