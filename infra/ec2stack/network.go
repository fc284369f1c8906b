package ec2stack

import (
	"errors"

	. "github.com/balaaddepalli/awsstacks/intrinsics"
	"github.com/balaaddepalli/awsstacks/internal/stack"
	"github.com/balaaddepalli/awsstacks/resources/ec2"
)

// Network topology:
//
//	VPC (10.0.0.0/16)
//	|
//	+-- Public Subnet AZ-a (10.0.0.0/24)
//	    +-- default route -> Internet Gateway
//	    +-- EC2 instance (public IP, no NAT)

// ----------------------------------------------------------------------------
// VPC
// ----------------------------------------------------------------------------

// VPC is the instance network with DNS support enabled.
var VPC = ec2.VPC{
	CidrBlock:          "10.0.0.0/16",
	EnableDnsHostnames: true,
	EnableDnsSupport:   true,
	Tags:               Tags("Name", Sub{String: "${AWS::StackName}-vpc"}),
}

// ----------------------------------------------------------------------------
// Internet Gateway
// ----------------------------------------------------------------------------

// InternetGateway provides internet access for the public subnet.
var InternetGateway = ec2.InternetGateway{
	Tags: Tags("Name", Sub{String: "${AWS::StackName}-igw"}),
}

// GatewayAttachment attaches the Internet Gateway to the VPC.
var GatewayAttachment = ec2.VPCGatewayAttachment{
	InternetGatewayId: Ref{LogicalName: InternetGatewayName},
	VpcId:             Ref{LogicalName: VPCName},
}

// ----------------------------------------------------------------------------
// Public Subnet
// ----------------------------------------------------------------------------

// PublicSubnet is the single public subnet in the first availability zone.
var PublicSubnet = ec2.Subnet{
	VpcId:               Ref{LogicalName: VPCName},
	CidrBlock:           "10.0.0.0/24",
	AvailabilityZone:    Select{Index: 0, List: GetAZs{}},
	MapPublicIpOnLaunch: true,
	Tags:                Tags("Name", Sub{String: "${AWS::StackName}-public"}),
}

// PublicRouteTable is the route table of the public subnet.
var PublicRouteTable = ec2.RouteTable{
	VpcId: Ref{LogicalName: VPCName},
	Tags:  Tags("Name", Sub{String: "${AWS::StackName}-public-rt"}),
}

// PublicRoute routes internet traffic through the Internet Gateway.
var PublicRoute = ec2.Route{
	RouteTableId:         Ref{LogicalName: PublicRouteTableName},
	DestinationCidrBlock: "0.0.0.0/0",
	GatewayId:            Ref{LogicalName: InternetGatewayName},
}

// PublicSubnetRouteTableAssociation associates the subnet with its route table.
var PublicSubnetRouteTableAssociation = ec2.SubnetRouteTableAssociation{
	SubnetId:     Ref{LogicalName: PublicSubnetName},
	RouteTableId: Ref{LogicalName: PublicRouteTableName},
}

func addNetwork(s *stack.Stack) error {
	return errors.Join(
		s.Add(VPCName, VPC),
		s.Add(InternetGatewayName, InternetGateway),
		s.Add(GatewayAttachmentName, GatewayAttachment),
		s.Add(PublicSubnetName, PublicSubnet),
		s.Add(PublicRouteTableName, PublicRouteTable),
		// The route fails until the gateway is attached.
		s.Add(PublicRouteName, PublicRoute, stack.DependsOn(GatewayAttachmentName)),
		s.Add(PublicSubnetRouteTableAssociationName, PublicSubnetRouteTableAssociation),
	)
}
