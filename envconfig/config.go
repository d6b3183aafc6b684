// config.go - Haupt-Konfigurationsfunktionen fuer devicemgr
//
// Dieses Modul enthaelt:
// - Device: Bevorzugtes Geraet (DEVICEMGR_DEVICE)
// - Host: Listen-Adresse fuer serve (DEVICEMGR_HOST)
// - AllowedOrigins: Erlaubte CORS-Origins (DEVICEMGR_ORIGINS)
// - LogLevel: Log-Level (DEVICEMGR_DEBUG)
//
// Weitere Konfigurationen sind ausgelagert:
// - config_features.go: Thread- und Backend-Variablen
// - config_utils.go: Getter und AsMap/Values
package envconfig

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const defaultPort = "11535"

// Device gibt das bevorzugte Geraet zurueck (z.B. "cuda:0", "cpu")
// Konfigurierbar via DEVICEMGR_DEVICE
// Default: leer = automatische Auswahl
// Der Wert wird unveraendert uebernommen, wie beim --device Flag
func Device() string {
	return Var("DEVICEMGR_DEVICE")
}

// Host gibt Scheme und Host fuer den HTTP-Server zurueck
// Konfigurierbar via DEVICEMGR_HOST
// Default: http://127.0.0.1:11535
func Host() *url.URL {
	port := defaultPort

	s := strings.TrimSpace(Var("DEVICEMGR_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		port = "80"
	case scheme == "https":
		port = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, p, err := net.SplitHostPort(hostport)
	if err != nil {
		host, p = "127.0.0.1", port
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(p, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", p, "default", port)
		p = port
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, p),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via DEVICEMGR_ORIGINS (komma-separiert)
// Enthaelt immer die localhost-Origins
func AllowedOrigins() (origins []string) {
	if s := Var("DEVICEMGR_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	return origins
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via DEVICEMGR_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("DEVICEMGR_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
