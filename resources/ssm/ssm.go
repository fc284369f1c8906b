// Package ssm holds Systems Manager parameter names used as template
// parameter defaults.
package ssm

// ImageIDParameterType is the template parameter type that resolves an AMI
// ID from a public SSM parameter at deploy time.
const ImageIDParameterType = "AWS::SSM::Parameter::Value<AWS::EC2::Image::Id>"

// AmazonLinux2023 returns the public parameter holding the latest Amazon
// Linux 2023 AMI for an architecture ("x86_64" or "arm64").
func AmazonLinux2023(arch string) string {
	return "/aws/service/ami-amazon-linux-latest/al2023-ami-kernel-default-" + arch
}
