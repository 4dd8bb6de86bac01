// Package config loads settings for the taskboard command-line client.
//
// Precedence, lowest first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A YAML or JSON-with-comments file named by --config.
//  3. Environment: TASKBOARD_SERVER, TASKBOARD_HEALTH, TASKBOARD_DATA_DIR.
//  4. Flags explicitly set on the command line.
//
// File keys mirror the flag names:
//
//	server: http://127.0.0.1:3000/api
//	health: 127.0.0.1:50051
//	data_dir: /home/me/.config/taskboard
//	timeout: 10s
//	no_color: false
package config
