// Package file provides file-based implementations of driven port interfaces.
// These adapters read and write TOML and text files in the odiscan config
// directory.
//
// Adapters:
//   - SettingsStore: TOML application settings with environment overrides
//   - LexiconStore: TOML keyword lists layered over the built-in lexicon
//   - PromptStore: user-editable prompt files with embedded defaults
package file
