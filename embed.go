package neonlog

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// theme.css (the default stylesheet, neon and terminal palettes)
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
