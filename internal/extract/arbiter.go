package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/scanrename/constants"
	"github.com/joseph-ayodele/scanrename/internal/entity"
	"github.com/joseph-ayodele/scanrename/internal/heuristics"
	"github.com/joseph-ayodele/scanrename/internal/naming"
)

// Arbiter runs the field extractors and resolves precedence between their results.
type Arbiter struct {
	Extractors []Extractor
	Dates      naming.DateResolver
	Logger     *slog.Logger
}

// NewArbiter wires the default extractors and date resolver.
func NewArbiter(logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{
		Extractors: DefaultExtractors(),
		Dates:      naming.NewDateResolver(),
		Logger:     logger,
	}
}

// Resolve produces the (zone, sender, date, subjectOrCase) tuple for naming.
// Missing fields degrade to sentinels; this never fails.
func (a *Arbiter) Resolve(doc entity.Document, cfg heuristics.Config) entity.Resolution {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	zone := Classify(doc.Page, cfg)
	if cfg.ForceZone != "" {
		if z, ok := constants.Canonicalize(cfg.ForceZone); ok {
			zone = z
		}
	}

	found := make(map[entity.FieldKind]entity.ExtractedField, 3)
	for _, ex := range a.Extractors {
		kind := ex.Kind()
		if zone == constants.ZoneShortForm && kind != entity.FieldSender {
			continue
		}
		f, ok := ex.Extract(doc, cfg)
		if !ok {
			continue
		}
		if prev, seen := found[kind]; seen && prev.Rank >= f.Rank {
			continue
		}
		found[kind] = f
	}

	md := naming.ParseFilename(doc.Path)
	res := entity.Resolution{
		Zone: zone,
		Date: a.Dates.Resolve(doc.Path, md),
	}

	switch f, ok := found[entity.FieldSender]; {
	case ok:
		res.Sender, res.SenderSource = f.Value, f.Source
	case md.Sender != "":
		res.Sender, res.SenderSource = md.Sender, "filename"
	default:
		res.Sender, res.SenderSource = constants.UnknownSender, "sentinel"
	}

	if zone == constants.ZoneShortForm {
		res.SubjectOrCase, res.SubjectSource = constants.ShortFormSubject, "short_form"
		return res
	}

	if f, ok := found[entity.FieldCaseNumber]; ok {
		res.SubjectOrCase, res.SubjectSource = constants.CaseNumberPrefix+f.Value, f.Source
		return res
	}
	logger.Debug("extract.case_number", "path", doc.Path, "result", constants.NoCaseNumberFound)

	if f, ok := found[entity.FieldSubject]; ok {
		res.SubjectOrCase, res.SubjectSource = f.Value, f.Source
	} else {
		res.SubjectOrCase, res.SubjectSource = constants.NoSubjectFound, "sentinel"
	}
	return res
}
