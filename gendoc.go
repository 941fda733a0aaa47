// Package ncwms holds the selection model of a Godiva2-style ncWMS map
// viewer: the metadata types served by an ncWMS server, the rules for
// choosing levels, times and color scales, and the construction of WMS
// overlay and companion URLs. The HTTP client lives in package wmsclient and
// the interactive workflow in package gui.
package ncwms

// go get github.com/golang/mock/gomock
// go install github.com/golang/mock/mockgen

// Generate mock client
//go:generate mockgen -destination mock_ncwms/mock_ncwms.go github.com/kwilcox/ncWMS MetadataClient
