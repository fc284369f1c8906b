// Package appconfig loads the deployment settings shared by all stacks from
// awsstacks.yaml. Every field has a default, so the file is optional.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "awsstacks.yaml"

var (
	// ErrUnknownStack is returned when a stack name is not defined by the app.
	ErrUnknownStack = errors.New("unknown stack")

	// ErrInvalid is returned when a loaded config fails validation.
	ErrInvalid = errors.New("invalid config")
)

// Config is the app-wide deployment configuration.
type Config struct {
	Region string `yaml:"region"`

	// CICDAccount hosts the pipelines, WorkloadAccount the Lambda and EC2 stacks.
	CICDAccount     string `yaml:"cicdAccount"`
	WorkloadAccount string `yaml:"workloadAccount"`

	GitHub        GitHub `yaml:"github"`
	ConnectionArn string `yaml:"connectionArn"`

	// Qualifier is the bootstrap qualifier of the cdk-<qualifier>-* roles and
	// asset bucket in the workload account.
	Qualifier string `yaml:"qualifier"`

	Environment string `yaml:"environment"` // ENVIRONMENT tag value

	Lambda LambdaConfig `yaml:"lambda"`
	EC2    EC2Config    `yaml:"ec2"`
}

// GitHub identifies the source repository of the pipelines.
type GitHub struct {
	Owner  string `yaml:"owner"`
	Repo   string `yaml:"repo"`
	Branch string `yaml:"branch"`
}

// LambdaConfig holds Lambda stack settings.
type LambdaConfig struct {
	// CodeKey is the default S3 key of the published bundle. Empty means the
	// key must be passed as a parameter at deploy time.
	CodeKey       string   `yaml:"codeKey"`
	AllowedOrigin string   `yaml:"allowedOrigin"`
	SourceIPs     []string `yaml:"sourceIps"`
}

// EC2Config holds EC2 stack settings.
type EC2Config struct {
	InstanceType string `yaml:"instanceType"`
	VolumeSize   int    `yaml:"volumeSize"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Region:          "eu-central-1",
		CICDAccount:     "642244225184",
		WorkloadAccount: "685385421611",
		GitHub: GitHub{
			Owner:  "BalaAddepalli",
			Repo:   "cdk",
			Branch: "main",
		},
		ConnectionArn: "arn:aws:codeconnections:eu-central-1:642244225184:connection/760d32e5-09d1-48b7-b67c-98d42e2ff8c2",
		Qualifier:     "hnb659fds",
		Environment:   "SANDBOX",
		Lambda: LambdaConfig{
			AllowedOrigin: "https://*.yourdomain.com",
			SourceIPs:     []string{"0.0.0.0/0"},
		},
		EC2: EC2Config{
			InstanceType: "t3.micro",
			VolumeSize:   20,
		},
	}
}

// Load reads path over the defaults. An empty path reads DefaultFile when it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

var accountPattern = regexp.MustCompile(`^[0-9]{12}$`)

// Validate checks the fields every stack depends on.
func (c Config) Validate() error {
	var errs []error
	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}
	if !accountPattern.MatchString(c.CICDAccount) {
		errs = append(errs, fmt.Errorf("cicdAccount %q is not a 12-digit account ID", c.CICDAccount))
	}
	if !accountPattern.MatchString(c.WorkloadAccount) {
		errs = append(errs, fmt.Errorf("workloadAccount %q is not a 12-digit account ID", c.WorkloadAccount))
	}
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		errs = append(errs, errors.New("github owner and repo are required"))
	}
	if c.Qualifier == "" {
		errs = append(errs, errors.New("qualifier is required"))
	}
	if c.EC2.VolumeSize < 0 {
		errs = append(errs, fmt.Errorf("ec2.volumeSize %d is negative", c.EC2.VolumeSize))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// AssetBucket returns the bootstrap asset bucket of the workload account.
func (c Config) AssetBucket() string {
	return fmt.Sprintf("cdk-%s-assets-%s-%s", c.Qualifier, c.WorkloadAccount, c.Region)
}

// DeployRole returns the name of the workload account's deploy role.
func (c Config) DeployRole() string {
	return fmt.Sprintf("cdk-%s-deploy-role-%s-%s", c.Qualifier, c.WorkloadAccount, c.Region)
}

// FilePublishingRole returns the name of the workload account's asset
// publishing role.
func (c Config) FilePublishingRole() string {
	return fmt.Sprintf("cdk-%s-file-publishing-role-%s-%s", c.Qualifier, c.WorkloadAccount, c.Region)
}

// ExecutionRole returns the name of the role CloudFormation assumes in the
// workload account to apply changes.
func (c Config) ExecutionRole() string {
	return fmt.Sprintf("cdk-%s-cfn-exec-role-%s-%s", c.Qualifier, c.WorkloadAccount, c.Region)
}
