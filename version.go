package navi

// Version is the release of the navi module. Overridden at build time with
// -ldflags "-X github.com/meiyaku-knights/navi.Version=...".
var Version = "0.3.0"
