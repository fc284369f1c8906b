package differ

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	awsstacks "github.com/balaaddepalli/awsstacks"
)

func TestCompare(t *testing.T) {
	t1 := &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			"Bucket1": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "bucket1"}},
			"Bucket2": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "bucket2"}},
		},
	}

	t2 := &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			"Bucket1": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "bucket1-modified"}},
			"Bucket3": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "bucket3"}},
		},
	}

	result := Compare(t1, t2, Options{})

	// Bucket2 was removed
	if len(result.Diff.Removed) != 1 {
		t.Errorf("Removed = %d, want 1", len(result.Diff.Removed))
	} else if result.Diff.Removed[0].Resource != "Bucket2" {
		t.Errorf("Removed[0].Resource = %s, want Bucket2", result.Diff.Removed[0].Resource)
	}

	// Bucket3 was added
	if len(result.Diff.Added) != 1 {
		t.Errorf("Added = %d, want 1", len(result.Diff.Added))
	} else if result.Diff.Added[0].Resource != "Bucket3" {
		t.Errorf("Added[0].Resource = %s, want Bucket3", result.Diff.Added[0].Resource)
	}

	// Bucket1 was modified
	if len(result.Diff.Modified) != 1 {
		t.Errorf("Modified = %d, want 1", len(result.Diff.Modified))
	} else if result.Diff.Modified[0].Resource != "Bucket1" {
		t.Errorf("Modified[0].Resource = %s, want Bucket1", result.Diff.Modified[0].Resource)
	}

	if result.Summary.Total != 3 {
		t.Errorf("Summary.Total = %d, want 3", result.Summary.Total)
	}
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			"Bucket": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "test"}},
		},
	}

	result := Compare(tmpl, tmpl, Options{})
	if !result.Empty() {
		t.Errorf("expected no differences, got %+v", result)
	}
}

func TestCompare_NestedPaths(t *testing.T) {
	before := &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			"HelloFunction": {Type: "AWS::Lambda::Function", Properties: map[string]any{
				"Environment": map[string]any{"Variables": map[string]any{"LOG_LEVEL": "INFO"}},
				"Role":        map[string]any{"Fn::GetAtt": []any{"RoleA", "Arn"}},
				"MemorySize":  float64(256),
			}},
		},
	}
	after := &awsstacks.Template{
		Resources: map[string]awsstacks.ResourceDef{
			"HelloFunction": {Type: "AWS::Lambda::Function", Properties: map[string]any{
				"Environment": map[string]any{"Variables": map[string]any{"LOG_LEVEL": "DEBUG"}},
				"Role":        map[string]any{"Fn::GetAtt": []any{"RoleB", "Arn"}},
				"Timeout":     float64(10),
			}},
		},
	}

	result := Compare(before, after, Options{})
	if len(result.Diff.Modified) != 1 {
		t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
	}

	got := strings.Join(result.Diff.Modified[0].Changes, "\n")
	want := strings.Join([]string{
		"Environment.Variables.LOG_LEVEL modified",
		"MemorySize removed",
		"Role modified",
		"Timeout added",
	}, "\n")
	if got != want {
		t.Errorf("changes:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompare_Attributes(t *testing.T) {
	tests := []struct {
		name   string
		before awsstacks.ResourceDef
		after  awsstacks.ResourceDef
		want   string
	}{
		{
			name:   "type",
			before: awsstacks.ResourceDef{Type: "AWS::S3::Bucket"},
			after:  awsstacks.ResourceDef{Type: "AWS::SQS::Queue"},
			want:   "Type changed: AWS::S3::Bucket → AWS::SQS::Queue",
		},
		{
			name:   "depends on",
			before: awsstacks.ResourceDef{Type: "AWS::S3::Bucket", DependsOn: []string{"A"}},
			after:  awsstacks.ResourceDef{Type: "AWS::S3::Bucket", DependsOn: []string{"A", "B"}},
			want:   "DependsOn changed",
		},
		{
			name:   "deletion policy",
			before: awsstacks.ResourceDef{Type: "AWS::S3::Bucket"},
			after:  awsstacks.ResourceDef{Type: "AWS::S3::Bucket", DeletionPolicy: "Retain"},
			want:   `DeletionPolicy changed: "" → "Retain"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compare(
				&awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{"R": tt.before}},
				&awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{"R": tt.after}},
				Options{},
			)
			if len(result.Diff.Modified) != 1 {
				t.Fatalf("Modified = %d, want 1", len(result.Diff.Modified))
			}
			if changes := result.Diff.Modified[0].Changes; len(changes) != 1 || changes[0] != tt.want {
				t.Errorf("changes = %v, want [%s]", changes, tt.want)
			}
		})
	}
}

func TestCompare_DependsOnOrder(t *testing.T) {
	before := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"R": {Type: "AWS::S3::Bucket", DependsOn: []string{"A", "B"}},
	}}
	after := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"R": {Type: "AWS::S3::Bucket", DependsOn: []string{"B", "A"}},
	}}

	if result := Compare(before, after, Options{}); !result.Empty() {
		t.Errorf("DependsOn order should not matter, got %+v", result.Diff.Modified)
	}
}

func TestCompare_IgnoreOrder(t *testing.T) {
	before := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"Api": {Type: "AWS::ApiGateway::RestApi", Properties: map[string]any{
			"BinaryMediaTypes": []any{"image/png", "application/octet-stream"},
		}},
	}}
	after := &awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
		"Api": {Type: "AWS::ApiGateway::RestApi", Properties: map[string]any{
			"BinaryMediaTypes": []any{"application/octet-stream", "image/png"},
		}},
	}}

	if result := Compare(before, after, Options{}); result.Summary.Modified != 1 {
		t.Errorf("ordered compare: Modified = %d, want 1", result.Summary.Modified)
	}
	if result := Compare(before, after, Options{IgnoreOrder: true}); !result.Empty() {
		t.Errorf("IgnoreOrder compare: got %+v", result.Diff.Modified)
	}
}

func TestCompare_ParametersAndOutputs(t *testing.T) {
	before := &awsstacks.Template{
		Resources:  map[string]awsstacks.ResourceDef{},
		Parameters: map[string]awsstacks.Parameter{"CodeS3Key": {Type: "String"}},
		Outputs:    map[string]awsstacks.Output{"ApiUrl": {Value: "a"}},
	}
	after := &awsstacks.Template{
		Resources:  map[string]awsstacks.ResourceDef{},
		Parameters: map[string]awsstacks.Parameter{"CodeS3Key": {Type: "String", Default: "x.zip"}},
		Outputs:    map[string]awsstacks.Output{},
	}

	result := Compare(before, after, Options{})
	if len(result.Parameters) != 1 || result.Parameters[0] != "CodeS3Key.Default added" {
		t.Errorf("Parameters = %v", result.Parameters)
	}
	if len(result.Outputs) != 1 || result.Outputs[0] != "ApiUrl removed" {
		t.Errorf("Outputs = %v", result.Outputs)
	}
	if result.Empty() {
		t.Error("expected differences")
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "a.json")
	yamlPath := filepath.Join(dir, "b.yaml")

	if err := os.WriteFile(jsonPath, []byte(`{"Resources":{"Bucket":{"Type":"AWS::S3::Bucket","Properties":{"VersioningConfiguration":{"Status":"Enabled"}}}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(yamlPath, []byte("Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n    Properties:\n      VersioningConfiguration:\n        Status: Enabled\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := CompareFiles(jsonPath, yamlPath, Options{})
	if err != nil {
		t.Fatalf("CompareFiles() error = %v", err)
	}
	if !result.Empty() {
		t.Errorf("JSON and YAML forms should match, got %+v", result)
	}

	if _, err := CompareFiles(jsonPath, filepath.Join(dir, "missing.json"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWrite(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, &Result{}); err != nil {
		t.Fatal(err)
	}
	if sb.String() != "No differences\n" {
		t.Errorf("empty result = %q", sb.String())
	}

	result := Compare(
		&awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
			"Old": {Type: "AWS::S3::Bucket"},
			"Fn":  {Type: "AWS::Lambda::Function", Properties: map[string]any{"Timeout": float64(3)}},
		}},
		&awsstacks.Template{Resources: map[string]awsstacks.ResourceDef{
			"New": {Type: "AWS::SQS::Queue"},
			"Fn":  {Type: "AWS::Lambda::Function", Properties: map[string]any{"Timeout": float64(10)}},
		}},
		Options{},
	)

	sb.Reset()
	if err := Write(&sb, result); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"+ New (AWS::SQS::Queue)",
		"- Old (AWS::S3::Bucket)",
		"~ Fn (AWS::Lambda::Function)",
		"    Timeout modified",
		"1 added, 1 removed, 1 modified",
	} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("output missing %q:\n%s", want, sb.String())
		}
	}
}
