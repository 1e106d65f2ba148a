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

package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	npm "github.com/aquasecurity/go-npm-version/pkg"
	pep440 "github.com/aquasecurity/go-pep440-version"
	apk "github.com/knqyf263/go-apk-version"
	deb "github.com/knqyf263/go-deb-version"
	rpm "github.com/knqyf263/go-rpm-version"
	"github.com/package-url/packageurl-go"
	gosemver "golang.org/x/mod/semver"
)

var versionInvalidCharsRe = regexp.MustCompile(`[^0-9.]`)

// ConvertToSemver converts distribution and ecosystem versions to semantic versioning.
// Epochs and a "v" prefix are dropped, "~" starts a pre-release and missing
// segments are filled with zeros ("1.2" -> "1.2.0").
func ConvertToSemver(originalVersion string) (string, error) {
	if originalVersion == "" {
		return "", nil
	}

	version := originalVersion
	if idx := strings.Index(version, ":"); idx != -1 {
		version = version[idx+1:]
	}
	version = strings.TrimPrefix(version, "v")

	var buildMetadata, preRelease string
	if before, after, found := strings.Cut(version, "+"); found {
		version, buildMetadata = before, after
	}
	if before, after, found := strings.Cut(version, "~"); found {
		version, preRelease = before, after
	}
	if before, after, found := strings.Cut(version, "-"); found {
		version = before
		if preRelease != "" {
			preRelease = after + "-" + preRelease
		} else {
			preRelease = after
		}
	}
	// redhat releases like "31.4.0-1.el5_11"
	preRelease = strings.ReplaceAll(preRelease, "_", ".")

	if versionInvalidCharsRe.MatchString(version) {
		return "", fmt.Errorf("version contains invalid characters (only 0-9 and . allowed): %s", version)
	}

	segments := strings.Split(version, ".")
	if len(segments) > 3 {
		return "", fmt.Errorf("version has more than 3 segments (expected major.minor.patch): %s", version)
	}
	for i, segment := range segments {
		if trimmed := strings.TrimLeft(segment, "0"); trimmed != "" {
			segments[i] = trimmed
		} else if segment != "" {
			segments[i] = "0"
		}
	}
	for len(segments) < 3 {
		segments = append(segments, "0")
	}

	result := strings.Join(segments, ".")
	if preRelease != "" {
		result += "-" + preRelease
	}
	if buildMetadata != "" {
		result += "+" + buildMetadata
	}

	if !gosemver.IsValid("v" + result) {
		return "", fmt.Errorf("resulting semver is invalid: %s", result)
	}
	return result, nil
}

func newerWith[V any](latest, installed string, parse func(string) (V, error), greaterThan func(a, b V) bool) (bool, error) {
	l, err := parse(latest)
	if err != nil {
		return false, fmt.Errorf("could not parse version %q: %w", latest, err)
	}
	i, err := parse(installed)
	if err != nil {
		return false, fmt.Errorf("could not parse version %q: %w", installed, err)
	}
	return greaterThan(l, i), nil
}

// IsNewer reports whether latest is strictly newer than installed according to the
// version ordering of the package ecosystem (a purl type). Ecosystems without a
// dedicated ordering are compared as semantic versions.
func IsNewer(purlType, latest, installed string) (bool, error) {
	if latest == "" || installed == "" {
		return false, nil
	}

	switch purlType {
	case packageurl.TypeNPM:
		return newerWith(latest, installed, npm.NewVersion, func(a, b npm.Version) bool { return a.GreaterThan(b) })
	case packageurl.TypePyPi:
		return newerWith(latest, installed, pep440.Parse, func(a, b pep440.Version) bool { return a.GreaterThan(b) })
	case packageurl.TypeDebian:
		return newerWith(latest, installed, deb.NewVersion, func(a, b deb.Version) bool { return a.GreaterThan(b) })
	case packageurl.TypeRPM:
		return newerWith(latest, installed,
			func(v string) (rpm.Version, error) { return rpm.NewVersion(v), nil },
			func(a, b rpm.Version) bool { return a.GreaterThan(b) })
	case "apk", "alpine":
		return newerWith(latest, installed, apk.NewVersion, func(a, b apk.Version) bool { return a.GreaterThan(b) })
	}

	newer, err := newerWith(latest, installed, semver.NewVersion, func(a, b *semver.Version) bool { return a.GreaterThan(b) })
	if err == nil {
		return newer, nil
	}
	// versions like "1.2.3-5.el9" only parse after normalization
	l, lErr := ConvertToSemver(latest)
	i, iErr := ConvertToSemver(installed)
	if lErr != nil || iErr != nil {
		return false, err
	}
	return gosemver.Compare("v"+l, "v"+i) > 0, nil
}
