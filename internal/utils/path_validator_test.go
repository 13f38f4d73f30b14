package utils

import "testing"

func TestValidateScanPath(t *testing.T) {
	tests := []struct {
		name    string
		root    string
		path    string
		wantErr bool
	}{
		{name: "file in root", root: "data/scans", path: "data/scans/test_doc.jpg"},
		{name: "nested file", root: "data/scans", path: "data/scans/2026/01/a.png"},
		{name: "dot segments inside", root: "data/scans", path: "data/scans/x/../b.png"},
		{name: "absolute root", root: "/srv/scans", path: "/srv/scans/a.png"},
		{name: "traversal", root: "data/scans", path: "data/scans/../../etc/passwd", wantErr: true},
		{name: "sibling prefix", root: "data/scans", path: "data/scans-old/a.png", wantErr: true},
		{name: "root itself", root: "data/scans", path: "data/scans", wantErr: true},
		{name: "empty", root: "data/scans", path: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScanPath(tt.root, tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScanPath(%q, %q) error = %v, wantErr %v", tt.root, tt.path, err, tt.wantErr)
			}
		})
	}
}
