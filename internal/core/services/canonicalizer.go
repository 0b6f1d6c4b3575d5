package services

import (
	"sort"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/logger"
)

// Canonicalize turns the corpus into retrievable units.
// Route units come first in provider then route order, followed by one unit
// per provider file sorted by filename. The first unit with a given ID wins.
func Canonicalize(desc *domain.CorpusDescription, files []domain.ProviderFile) []domain.DocumentUnit {
	units := []domain.DocumentUnit{}
	seen := make(map[string]bool)

	add := func(u domain.DocumentUnit) {
		if seen[u.ID] {
			logger.Warn("Skipping duplicate document %q", u.ID)
			return
		}
		seen[u.ID] = true
		units = append(units, u)
	}

	if desc != nil {
		for _, p := range desc.Providers {
			for _, r := range p.Routes {
				add(domain.DocumentUnit{
					ID:   domain.RouteUnitID(p.Name, r.Origin, r.Destination),
					Text: domain.RouteText(p.Name, r),
					Kind: domain.UnitKindRoute,
				})
			}
		}
	}

	sorted := make([]domain.ProviderFile, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, f := range sorted {
		add(domain.DocumentUnit{
			ID:   domain.ProviderUnitID(f.Name),
			Text: f.Content,
			Kind: domain.UnitKindProviderFile,
		})
	}

	return units
}
