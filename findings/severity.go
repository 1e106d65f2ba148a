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
	"strings"

	"github.com/l3montree-dev/devguard-findings/database/models"
	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
)

var severityRanks = map[models.Severity]int{
	models.SeverityCritical:   0,
	models.SeverityHigh:       1,
	models.SeverityMedium:     2,
	models.SeverityLow:        3,
	models.SeverityInfo:       4,
	models.SeverityUnassigned: 5,
}

// Severity returns the stored severity or derives one from the cvss data. v3 takes precedence over v2.
func Severity(vuln models.VulnerabilityRow) models.Severity {
	if vuln.Severity != nil {
		if s := models.Severity(strings.ToUpper(*vuln.Severity)); s != models.SeverityUnassigned {
			if _, known := severityRanks[s]; known {
				return s
			}
		}
	}

	if score, ok := cvssV3Score(vuln); ok {
		return cvssV3Severity(score)
	}
	if score, ok := cvssV2Score(vuln); ok {
		return cvssV2Severity(score)
	}
	return models.SeverityUnassigned
}

func SeverityRank(s models.Severity) int {
	if rank, ok := severityRanks[s]; ok {
		return rank
	}
	return severityRanks[models.SeverityUnassigned]
}

func cvssV3Score(vuln models.VulnerabilityRow) (float64, bool) {
	if vuln.CVSSV3BaseScore != nil {
		return *vuln.CVSSV3BaseScore, true
	}
	if vuln.CVSSV3Vector == nil {
		return 0, false
	}
	vector := *vuln.CVSSV3Vector
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return cvss.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return cvss.BaseScore(), true
	}
	return 0, false
}

func cvssV2Score(vuln models.VulnerabilityRow) (float64, bool) {
	if vuln.CVSSV2BaseScore != nil {
		return *vuln.CVSSV2BaseScore, true
	}
	if vuln.CVSSV2Vector == nil || *vuln.CVSSV2Vector == "" {
		return 0, false
	}
	// some sources wrap v2 vectors in parentheses
	cvss, err := gocvss20.ParseVector(strings.Trim(*vuln.CVSSV2Vector, "()"))
	if err != nil {
		return 0, false
	}
	return cvss.BaseScore(), true
}

func cvssV3Severity(score float64) models.Severity {
	switch {
	case score >= 9:
		return models.SeverityCritical
	case score >= 7:
		return models.SeverityHigh
	case score >= 4:
		return models.SeverityMedium
	case score > 0:
		return models.SeverityLow
	}
	return models.SeverityUnassigned
}

func cvssV2Severity(score float64) models.Severity {
	switch {
	case score >= 7:
		return models.SeverityHigh
	case score >= 4:
		return models.SeverityMedium
	case score > 0:
		return models.SeverityLow
	}
	return models.SeverityUnassigned
}
