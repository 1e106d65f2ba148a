// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package findings

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/l3montree-dev/devguard-findings/database/models"
	"github.com/l3montree-dev/devguard-findings/dtos"
	"github.com/l3montree-dev/devguard-findings/normalize"
	"github.com/l3montree-dev/devguard-findings/utils"
	"github.com/package-url/packageurl-go"
	"github.com/pkg/errors"
)

type AliasLookup interface {
	GetAliases(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID][]models.VulnerabilityAlias, error)
}

type VulnerabilityTextLookup interface {
	GetTexts(ctx context.Context, vulnerabilityIDs []uuid.UUID) (map[uuid.UUID]models.Vulnerability, error)
}

type RepositoryMetaLookup interface {
	Lookup(ctx context.Context, coordinates []models.RepositoryMetaCoordinates) (map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent, error)
}

// Enricher projects finding rows into read models and attaches the data the
// tabular query does not carry.
type Enricher struct {
	aliases        AliasLookup
	texts          VulnerabilityTextLookup
	repositoryMeta RepositoryMetaLookup
}

func NewEnricher(aliases AliasLookup, texts VulnerabilityTextLookup, repositoryMeta RepositoryMetaLookup) *Enricher {
	return &Enricher{
		aliases:        aliases,
		texts:          texts,
		repositoryMeta: repositoryMeta,
	}
}

type componentCoordinates struct {
	purl        packageurl.PackageURL
	coordinates models.RepositoryMetaCoordinates
}

func (e *Enricher) Findings(ctx context.Context, rows []models.FindingRow) ([]dtos.Finding, error) {
	if len(rows) == 0 {
		return []dtos.Finding{}, nil
	}

	vulnerabilityIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		vulnerabilityIDs = append(vulnerabilityIDs, row.VulnerabilityID)
	}
	vulnerabilityIDs = utils.UniqBy(vulnerabilityIDs, func(id uuid.UUID) uuid.UUID { return id })

	aliases, err := e.aliases.GetAliases(ctx, vulnerabilityIDs)
	if err != nil {
		return nil, errors.Wrap(err, "could not load vulnerability aliases")
	}
	texts, err := e.texts.GetTexts(ctx, vulnerabilityIDs)
	if err != nil {
		return nil, errors.Wrap(err, "could not load vulnerability texts")
	}

	// rows without a resolvable package coordinate are not enriched
	coordinates := make(map[int]componentCoordinates)
	lookup := make([]models.RepositoryMetaCoordinates, 0, len(rows))
	for i, row := range rows {
		coords, ok := resolveCoordinates(row.ComponentPurl)
		if !ok {
			continue
		}
		coordinates[i] = coords
		lookup = append(lookup, coords.coordinates)
	}
	var meta map[models.RepositoryMetaCoordinates]models.RepositoryMetaComponent
	if len(lookup) > 0 {
		meta, err = e.repositoryMeta.Lookup(ctx, lookup)
		if err != nil {
			return nil, errors.Wrap(err, "could not load repository metadata")
		}
	}

	result := make([]dtos.Finding, 0, len(rows))
	for i, row := range rows {
		finding := dtos.Finding{
			Component:     componentMap(row),
			Vulnerability: vulnerabilityMap(row.VulnerabilityRow),
			Analysis: map[string]any{
				"state":        utils.SafeDereference(row.AnalysisState),
				"isSuppressed": row.IsSuppressed,
			},
			Attribution: map[string]any{
				"analyzerIdentity":    utils.SafeDereference(row.AnalyzerIdentity),
				"attributedOn":        row.AttributedOn,
				"alternateIdentifier": utils.SafeDereference(row.AlternateIdentifier),
				"referenceUrl":        utils.SafeDereference(row.ReferenceURL),
			},
			Matrix: dtos.NewFindingMatrix(row.ProjectID, row.ComponentID, row.VulnerabilityID),
		}
		attachTexts(finding.Vulnerability, aliases[row.VulnerabilityID], texts[row.VulnerabilityID])

		if coords, ok := coordinates[i]; ok {
			if m, found := meta[coords.coordinates]; found {
				attachLatestVersion(finding.Component, coords.purl.Type, m, utils.SafeDereference(row.ComponentVersion))
			}
		}
		result = append(result, finding)
	}
	return result, nil
}

func (e *Enricher) GroupedFindings(ctx context.Context, rows []models.GroupedFindingRow) ([]dtos.GroupedFinding, error) {
	if len(rows) == 0 {
		return []dtos.GroupedFinding{}, nil
	}

	vulnerabilityIDs := utils.UniqBy(utils.Map(rows, func(row models.GroupedFindingRow) uuid.UUID {
		return row.VulnerabilityID
	}), func(id uuid.UUID) uuid.UUID { return id })
	aliases, err := e.aliases.GetAliases(ctx, vulnerabilityIDs)
	if err != nil {
		return nil, errors.Wrap(err, "could not load vulnerability aliases")
	}

	result := make([]dtos.GroupedFinding, 0, len(rows))
	for _, row := range rows {
		vulnerability := vulnerabilityMap(row.VulnerabilityRow)
		vulnerability["aliases"] = aliasDTOs(aliases[row.VulnerabilityID])
		vulnerability["affectedProjectCount"] = row.AffectedProjectCount
		vulnerability["firstSeen"] = nullableString(row.FirstSeen.Valid, row.FirstSeen.String)
		vulnerability["lastSeen"] = nullableString(row.LastSeen.Valid, row.LastSeen.String)
		result = append(result, dtos.GroupedFinding{
			Vulnerability: vulnerability,
			Attribution: map[string]any{
				"analyzerIdentity": utils.SafeDereference(row.AnalyzerIdentity),
			},
		})
	}
	return result, nil
}

func resolveCoordinates(purl *string) (componentCoordinates, bool) {
	if purl == nil || *purl == "" {
		return componentCoordinates{}, false
	}
	parsed, err := packageurl.FromString(*purl)
	if err != nil {
		slog.Debug("skipping malformed purl during enrichment", "purl", *purl, "err", err)
		return componentCoordinates{}, false
	}
	repositoryType := models.ResolveRepositoryType(parsed)
	if repositoryType == models.RepositoryTypeUnsupported {
		return componentCoordinates{}, false
	}
	return componentCoordinates{
		purl: parsed,
		coordinates: models.RepositoryMetaCoordinates{
			RepositoryType: repositoryType,
			Namespace:      parsed.Namespace,
			Name:           parsed.Name,
		},
	}, true
}

func componentMap(row models.FindingRow) map[string]any {
	return map[string]any{
		"uuid":           row.ComponentID.String(),
		"name":           row.ComponentName,
		"group":          utils.SafeDereference(row.ComponentGroup),
		"version":        utils.SafeDereference(row.ComponentVersion),
		"purl":           utils.SafeDereference(row.ComponentPurl),
		"cpe":            utils.SafeDereference(row.ComponentCpe),
		"project":        row.ProjectID.String(),
		"projectName":    row.ProjectName,
		"projectVersion": utils.SafeDereference(row.ProjectVersion),
	}
}

func vulnerabilityMap(row models.VulnerabilityRow) map[string]any {
	severity := Severity(row)
	return map[string]any{
		"uuid":                      row.VulnerabilityID.String(),
		"source":                    row.VulnerabilitySource,
		"vulnId":                    row.VulnID,
		"title":                     utils.SafeDereference(row.Title),
		"subtitle":                  utils.SafeDereference(row.Subtitle),
		"severity":                  string(severity),
		"severityRank":              SeverityRank(severity),
		"cvssV2BaseScore":           row.CVSSV2BaseScore,
		"cvssV3BaseScore":           row.CVSSV3BaseScore,
		"cvssV2Vector":              utils.SafeDereference(row.CVSSV2Vector),
		"cvssV3Vector":              utils.SafeDereference(row.CVSSV3Vector),
		"owaspLikelihoodScore":      row.OWASPRRLikelihoodScore,
		"owaspTechnicalImpactScore": row.OWASPRRTechnicalImpactScore,
		"owaspBusinessImpactScore":  row.OWASPRRBusinessImpactScore,
		"cwes":                      parseCWEs(row.CWEs),
		"published":                 row.Published,
	}
}

// attachTexts sets the aliases and the large text columns, which are loaded separately from the row.
func attachTexts(vulnerability map[string]any, aliases []models.VulnerabilityAlias, texts models.Vulnerability) {
	vulnerability["aliases"] = aliasDTOs(aliases)
	vulnerability["description"] = texts.Description
	vulnerability["recommendation"] = texts.Recommendation
}

// aliasDTOs drops the surrogate ids of the aliases.
func aliasDTOs(aliases []models.VulnerabilityAlias) []dtos.VulnerabilityAliasDTO {
	return utils.Map(aliases, func(alias models.VulnerabilityAlias) dtos.VulnerabilityAliasDTO {
		return dtos.VulnerabilityAliasDTO{Source: alias.Source, VulnID: alias.AliasID}
	})
}

// attachLatestVersion adds the latest known version. The component is only flagged
// outdated if that version is strictly newer than the installed one.
func attachLatestVersion(component map[string]any, purlType string, meta models.RepositoryMetaComponent, installed string) {
	if meta.LatestVersion == "" {
		return
	}
	component["latestVersion"] = meta.LatestVersion
	newer, err := normalize.IsNewer(purlType, meta.LatestVersion, installed)
	if err != nil {
		slog.Debug("could not compare versions", "type", purlType, "latest", meta.LatestVersion, "installed", installed, "err", err)
		return
	}
	if newer {
		component["outdated"] = true
	}
}

func parseCWEs(raw *string) []int {
	cwes := []int{}
	if raw == nil || *raw == "" {
		return cwes
	}
	if err := json.Unmarshal([]byte(*raw), &cwes); err != nil {
		slog.Debug("could not parse cwes", "cwes", *raw, "err", err)
		return []int{}
	}
	return cwes
}

func nullableString(valid bool, s string) *string {
	if !valid {
		return nil
	}
	return &s
}
