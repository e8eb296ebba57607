// internal/version/version.go
package version

// Version is stamped at release time via -ldflags "-X peergrade/internal/version.Version=...".
var Version = "dev"
