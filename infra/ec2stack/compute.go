package ec2stack

import (
	_ "embed"
	"errors"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/ec2"
	"github.com/balaaddepalli/awsstacks/resources/iam"
)

// UserData installs Node.js, the demo HTTP server as a systemd unit and the
// CloudWatch agent.
//
//go:embed userdata.sh
var UserData string

// ----------------------------------------------------------------------------
// Security Group
// ----------------------------------------------------------------------------

func ingress(port int, description string) ec2.SecurityGroup_Ingress {
	return ec2.SecurityGroup_Ingress{
		IpProtocol:  "tcp",
		FromPort:    port,
		ToPort:      port,
		CidrIp:      "0.0.0.0/0",
		Description: description,
	}
}

// InstanceSecurityGroup opens SSH, HTTP and HTTPS and allows all outbound traffic.
var InstanceSecurityGroup = ec2.SecurityGroup{
	GroupDescription: "Security group for TypeScript EC2 instance",
	VpcId:            Ref{LogicalName: VPCName},
	SecurityGroupIngress: Any(
		ingress(22, "SSH access"),
		ingress(80, "HTTP access"),
		ingress(443, "HTTPS access"),
	),
	SecurityGroupEgress: Any(ec2.SecurityGroup_Egress{
		IpProtocol:  "-1",
		CidrIp:      "0.0.0.0/0",
		Description: "Allow all outbound traffic by default",
	}),
}

// ----------------------------------------------------------------------------
// Instance Role
// ----------------------------------------------------------------------------

// InstanceRole lets the instance use Session Manager and the CloudWatch agent.
var InstanceRole = iam.Role{
	Description: "IAM role for TypeScript EC2 instance",
	AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: ServicePrincipal{"ec2.amazonaws.com"},
		Action:    "sts:AssumeRole",
	}),
	ManagedPolicyArns: Any(
		ManagedPolicyArn("AmazonSSMManagedInstanceCore"),
		ManagedPolicyArn("CloudWatchAgentServerPolicy"),
	),
}

// InstanceProfile carries InstanceRole onto the instance.
var InstanceProfile = iam.InstanceProfile{
	Roles: Any(Ref{LogicalName: InstanceRoleName}),
}

// ----------------------------------------------------------------------------
// Instance
// ----------------------------------------------------------------------------

func instanceTags(p Props) []any {
	pairs := []any{
		"Name", "TypeScript-EC2-Instance",
		"Environment", "Production",
		"Project", "TypeScript-EC2",
		"ManagedBy", "awsstacks",
	}
	if p.Environment != "" {
		pairs = append(pairs, "ENVIRONMENT", p.Environment)
	}
	return Tags(pairs...)
}

func instance(p Props) ec2.Instance {
	return ec2.Instance{
		InstanceType:       p.InstanceType,
		ImageId:            Ref{LogicalName: ImageParameter},
		SubnetId:           Ref{LogicalName: PublicSubnetName},
		SecurityGroupIds:   Any(GetAtt{LogicalName: SecurityGroupName, Attribute: "GroupId"}),
		IamInstanceProfile: Ref{LogicalName: InstanceProfileName},
		Monitoring:         true,
		UserData:           Base64{Value: UserData},
		BlockDeviceMappings: Any(ec2.Instance_BlockDeviceMapping{
			DeviceName: "/dev/xvda",
			Ebs: &ec2.Instance_Ebs{
				VolumeSize:          p.VolumeSize,
				VolumeType:          "gp3",
				Encrypted:           true,
				DeleteOnTermination: true,
			},
		}),
		Tags: instanceTags(p),
	}
}

func addCompute(s *stack.Stack, p Props) error {
	return errors.Join(
		s.Add(SecurityGroupName, InstanceSecurityGroup),
		s.Add(InstanceRoleName, InstanceRole),
		s.Add(InstanceProfileName, InstanceProfile),
		// The default route must exist before user data downloads packages.
		s.Add(InstanceName, instance(p), stack.DependsOn(PublicRouteName)),
	)
}
