package agentdeck

// Version is the release of the module. Overridden at build time with
// -ldflags "-X github.com/aretw0/agentdeck.Version=...".
var Version = "0.1.0-dev"
