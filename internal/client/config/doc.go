// Package config loads runtime configuration for the user console.
//
// Sources & precedence
//
//  1. Built-in defaults.
//  2. Optional config file selected with -c or -config. JSON, YAML or
//     TOML, picked by extension.
//  3. Environment variables prefixed with USERCONSOLE_, for example
//     USERCONSOLE_BASE_URL or USERCONSOLE_REQUEST_TIMEOUT=10s.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the user API
//	-t int      request timeout (seconds)
//	-d string   path of the local sqlite database
//
// # File schema
//
//	base_url: https://reqres.in/api
//	api_key: reqres-free-v1
//	request_timeout: 30s
//	db_path: userconsole.db
//	log_level: info
//	log_file: userconsole.log
package config
