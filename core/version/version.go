package version

// Version is the release version, overridable at build time with
// -ldflags "-X uilens/core/version.Version=...".
var Version = "0.3.0"
