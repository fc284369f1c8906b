// Package ec2stack declares the TypeScriptEC2Stack: a single public instance
// running the demo Node.js server, with its network, role, dashboard and
// alarms.
package ec2stack

import (
	"errors"

	awsstacks "github.com/balaaddepalli/awsstacks"
	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/ssm"
)

// StackName is the deployed stack name.
const StackName = "TypeScriptEC2Stack"

// Logical names.
const (
	VPCName                               = "Vpc"
	InternetGatewayName                   = "InternetGateway"
	GatewayAttachmentName                 = "GatewayAttachment"
	PublicSubnetName                      = "PublicSubnet"
	PublicRouteTableName                  = "PublicRouteTable"
	PublicRouteName                       = "PublicDefaultRoute"
	PublicSubnetRouteTableAssociationName = "PublicSubnetRouteTableAssociation"
	SecurityGroupName                     = "InstanceSecurityGroup"
	InstanceRoleName                      = "InstanceRole"
	InstanceProfileName                   = "InstanceProfile"
	InstanceName                          = "TypeScriptEC2Instance"
	DashboardResourceName                 = "EC2Dashboard"
	HighCPUAlarmName                      = "HighCpuAlarm"
	StatusCheckAlarmName                  = "StatusCheckAlarm"

	ImageParameter = "LatestAmiId"
)

// Props parameterizes the stack.
type Props struct {
	Env awsstacks.Env

	// Environment is the ENVIRONMENT tag value.
	Environment string

	InstanceType string
	VolumeSize   int
}

// New builds the stack.
func New(p Props) (*stack.Stack, error) {
	if p.InstanceType == "" {
		p.InstanceType = "t3.micro"
	}
	if p.VolumeSize == 0 {
		p.VolumeSize = 20
	}

	s := stack.New(StackName, p.Env)
	s.Description = "TypeScript EC2 instance with CloudWatch monitoring"

	s.AddParameter(ImageParameter, awsstacks.Parameter{
		Type:        ssm.ImageIDParameterType,
		Description: "Latest Amazon Linux 2023 AMI",
		Default:     ssm.AmazonLinux2023("x86_64"),
	})

	if err := errors.Join(
		addNetwork(s),
		addCompute(s, p),
		addMonitoring(s, p),
	); err != nil {
		return nil, err
	}

	addOutputs(s)
	return s, nil
}

// ----------------------------------------------------------------------------
// Outputs
// ----------------------------------------------------------------------------

func addOutputs(s *stack.Stack) {
	s.AddOutput("InstanceId", stack.Output{
		Description: "EC2 Instance ID",
		Value:       Ref{LogicalName: InstanceName},
	})
	s.AddOutput("PublicIp", stack.Output{
		Description: "EC2 Instance Public IP",
		Value:       GetAtt{LogicalName: InstanceName, Attribute: "PublicIp"},
	})
	s.AddOutput("PublicDnsName", stack.Output{
		Description: "EC2 Instance Public DNS Name",
		Value:       GetAtt{LogicalName: InstanceName, Attribute: "PublicDnsName"},
	})
	s.AddOutput("ApplicationUrl", stack.Output{
		Description: "Node.js Application URL",
		Value:       Sub{String: "http://${" + InstanceName + ".PublicDnsName}"},
	})
	s.AddOutput("DashboardUrl", stack.Output{
		Description: "CloudWatch Dashboard URL",
		Value: Sub{String: "https://${AWS::Region}.console.aws.amazon.com/cloudwatch/home?region=${AWS::Region}#dashboards:name=${" +
			DashboardResourceName + "}"},
	})
	s.AddOutput("SSHCommand", stack.Output{
		Description: "Connection method (no SSH key configured)",
		Value:       Sub{String: "Use AWS Systems Manager Session Manager to connect to instance ${" + InstanceName + "}"},
	})
}
