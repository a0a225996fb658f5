// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration key/value storage
//   - LoadFileSystemConfig: reads a crawl config TOML file directly (not
//     through ConfigStore) and decodes and validates it into FileSystemConfig
package file
