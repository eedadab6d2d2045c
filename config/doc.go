// Package config loads client group definitions for mgun from JSON or YAML
// files.
//
// A configuration file defines:
//   - Variables: values substituted into base URLs and header values using {{name}}
//   - Clients: named base URLs with default headers, timeout and TLS settings
//
// Example (YAML):
//
//	variables:
//	  host: httpbin.org
//	clients:
//	  httpbin:
//	    baseUrl: https://{{host}}
//	    headers:
//	      my-header: something
//	    timeout: 10s
//
// Basic Usage:
//
//	group, err := config.LoadGroup("clients.yaml", os.Environ())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := group.Get("httpbin")
//
// Variable Substitution:
//
// Environment variables prefixed with MGUN_ override file variables, so
// MGUN_host=staging.example.com redirects every {{host}} reference.
//
// Configuration Validation:
//
// ValidateConfig reports every problem at once: missing or malformed base
// URLs, unresolved {{variables}}, empty header names and bad timeouts.
package config
