// Package config resolves the launcher configuration.
//
// Values come from three layers, later layers winning:
//   - compiled-in defaults for the Overcast installer package
//   - an optional overcast-launcher.jsonc in the working directory,
//     parsed with github.com/tidwall/jsonc so comments and trailing
//     commas are allowed
//   - OVERCAST_* environment variables
package config
