package common

// WallabyVersion is the current version of the Wallaby compiler.
const WallabyVersion = "0.3.1"

// BuildFileName is the name of the build profile file of a Wallaby project.
const BuildFileName = "wallaby-build.toml"
