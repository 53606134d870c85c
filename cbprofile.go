// Package cbprofile extracts structured profile data from Crunchbase
// profile pages. It drives a browser to render each profile tab, decodes
// the page's section cards into nested key-value mappings, and stores or
// prints the aggregated result.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package cbprofile
