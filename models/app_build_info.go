// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

const buildInfoNotAvailable = "N/A"

// AppBuildInfo carries build-time metadata injected by linker flags.
// Empty values are reported as "N/A".
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// NewAppBuildInfo constructs [AppBuildInfo] from the provided build metadata.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: orNotAvailable(buildVersion),
		buildDate:    orNotAvailable(buildDate),
		buildCommit:  orNotAvailable(buildCommit),
	}
}

// BuildVersion returns the semantic version string of the build.
func (a AppBuildInfo) BuildVersion() string {
	return orNotAvailable(a.buildVersion)
}

// BuildDate returns the build timestamp string.
func (a AppBuildInfo) BuildDate() string {
	return orNotAvailable(a.buildDate)
}

// BuildCommit returns the source-control commit hash used for the build.
func (a AppBuildInfo) BuildCommit() string {
	return orNotAvailable(a.buildCommit)
}

// String renders the three values the way the binary prints them at startup.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s\n",
		a.BuildVersion(), a.BuildDate(), a.BuildCommit())
}

func orNotAvailable(s string) string {
	if s == "" {
		return buildInfoNotAvailable
	}
	return s
}
