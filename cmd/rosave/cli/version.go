package cli

// Version is the rosave release, overridden at build time with
// -ldflags "-X github.com/cualquiercosa327/robot-odyssey-rewired/cmd/rosave/cli.Version=...".
var Version = "0.3.0-dev"
