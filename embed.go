package siteconf

import "embed"

// EmbeddedAssets contains files shipped with the package: the stylesheet
// used by the default views.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
