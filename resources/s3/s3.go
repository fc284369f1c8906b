// Package s3 provides Amazon S3 resource types.
package s3

// Bucket represents AWS::S3::Bucket.
type Bucket struct {
	BucketEncryption               *Bucket_BucketEncryption               `json:"BucketEncryption,omitempty"`
	BucketName                     any                                    `json:"BucketName,omitempty"`
	PublicAccessBlockConfiguration *Bucket_PublicAccessBlockConfiguration `json:"PublicAccessBlockConfiguration,omitempty"`
	Tags                           []any                                  `json:"Tags,omitempty"`
	VersioningConfiguration        *Bucket_VersioningConfiguration        `json:"VersioningConfiguration,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Bucket) ResourceType() string {
	return "AWS::S3::Bucket"
}

// Bucket_BucketEncryption holds the default encryption rules.
type Bucket_BucketEncryption struct {
	ServerSideEncryptionConfiguration []any `json:"ServerSideEncryptionConfiguration,omitempty"`
}

// Bucket_ServerSideEncryptionRule is one default encryption rule.
type Bucket_ServerSideEncryptionRule struct {
	BucketKeyEnabled              any                                   `json:"BucketKeyEnabled,omitempty"`
	ServerSideEncryptionByDefault *Bucket_ServerSideEncryptionByDefault `json:"ServerSideEncryptionByDefault,omitempty"`
}

// Bucket_ServerSideEncryptionByDefault selects the algorithm ("AES256" or "aws:kms").
type Bucket_ServerSideEncryptionByDefault struct {
	KMSMasterKeyID any `json:"KMSMasterKeyID,omitempty"`
	SSEAlgorithm   any `json:"SSEAlgorithm,omitempty"`
}

// Bucket_PublicAccessBlockConfiguration blocks public ACLs and policies.
type Bucket_PublicAccessBlockConfiguration struct {
	BlockPublicAcls       any `json:"BlockPublicAcls,omitempty"`
	BlockPublicPolicy     any `json:"BlockPublicPolicy,omitempty"`
	IgnorePublicAcls      any `json:"IgnorePublicAcls,omitempty"`
	RestrictPublicBuckets any `json:"RestrictPublicBuckets,omitempty"`
}

// BlockAll returns a configuration with every public access block enabled.
func BlockAll() *Bucket_PublicAccessBlockConfiguration {
	return &Bucket_PublicAccessBlockConfiguration{
		BlockPublicAcls:       true,
		BlockPublicPolicy:     true,
		IgnorePublicAcls:      true,
		RestrictPublicBuckets: true,
	}
}

// Bucket_VersioningConfiguration enables or suspends versioning.
type Bucket_VersioningConfiguration struct {
	Status any `json:"Status,omitempty"`
}

// BucketPolicy represents AWS::S3::BucketPolicy.
type BucketPolicy struct {
	Bucket         any `json:"Bucket,omitempty"`
	PolicyDocument any `json:"PolicyDocument,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r BucketPolicy) ResourceType() string {
	return "AWS::S3::BucketPolicy"
}
