// Package ec2 provides Amazon EC2 and VPC resource types.
package ec2

// VPC represents AWS::EC2::VPC.
type VPC struct {
	CidrBlock          any   `json:"CidrBlock,omitempty"`
	EnableDnsHostnames any   `json:"EnableDnsHostnames,omitempty"`
	EnableDnsSupport   any   `json:"EnableDnsSupport,omitempty"`
	Tags               []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPC) ResourceType() string {
	return "AWS::EC2::VPC"
}

// Subnet represents AWS::EC2::Subnet.
type Subnet struct {
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	MapPublicIpOnLaunch any   `json:"MapPublicIpOnLaunch,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
	VpcId               any   `json:"VpcId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Subnet) ResourceType() string {
	return "AWS::EC2::Subnet"
}

// InternetGateway represents AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r InternetGateway) ResourceType() string {
	return "AWS::EC2::InternetGateway"
}

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
	VpcId             any `json:"VpcId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCGatewayAttachment) ResourceType() string {
	return "AWS::EC2::VPCGatewayAttachment"
}

// RouteTable represents AWS::EC2::RouteTable.
type RouteTable struct {
	Tags  []any `json:"Tags,omitempty"`
	VpcId any   `json:"VpcId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r RouteTable) ResourceType() string {
	return "AWS::EC2::RouteTable"
}

// Route represents AWS::EC2::Route.
type Route struct {
	DestinationCidrBlock any `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any `json:"GatewayId,omitempty"`
	RouteTableId         any `json:"RouteTableId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Route) ResourceType() string {
	return "AWS::EC2::Route"
}

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	RouteTableId any `json:"RouteTableId,omitempty"`
	SubnetId     any `json:"SubnetId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
type SecurityGroup struct {
	GroupDescription     any   `json:"GroupDescription,omitempty"`
	GroupName            any   `json:"GroupName,omitempty"`
	SecurityGroupEgress  []any `json:"SecurityGroupEgress,omitempty"`
	SecurityGroupIngress []any `json:"SecurityGroupIngress,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
	VpcId                any   `json:"VpcId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroup) ResourceType() string {
	return "AWS::EC2::SecurityGroup"
}

// SecurityGroup_Ingress is an inbound rule. IpProtocol "-1" means all.
type SecurityGroup_Ingress struct {
	CidrIp      any `json:"CidrIp,omitempty"`
	Description any `json:"Description,omitempty"`
	FromPort    any `json:"FromPort,omitempty"`
	IpProtocol  any `json:"IpProtocol,omitempty"`
	ToPort      any `json:"ToPort,omitempty"`
}

// SecurityGroup_Egress is an outbound rule.
type SecurityGroup_Egress struct {
	CidrIp      any `json:"CidrIp,omitempty"`
	Description any `json:"Description,omitempty"`
	FromPort    any `json:"FromPort,omitempty"`
	IpProtocol  any `json:"IpProtocol,omitempty"`
	ToPort      any `json:"ToPort,omitempty"`
}

// Instance represents AWS::EC2::Instance.
type Instance struct {
	BlockDeviceMappings []any `json:"BlockDeviceMappings,omitempty"`
	IamInstanceProfile  any   `json:"IamInstanceProfile,omitempty"`
	ImageId             any   `json:"ImageId,omitempty"`
	InstanceType        any   `json:"InstanceType,omitempty"`
	// Monitoring enables detailed (one minute) monitoring.
	Monitoring       any   `json:"Monitoring,omitempty"`
	SecurityGroupIds []any `json:"SecurityGroupIds,omitempty"`
	SubnetId         any   `json:"SubnetId,omitempty"`
	Tags             []any `json:"Tags,omitempty"`
	UserData         any   `json:"UserData,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Instance) ResourceType() string {
	return "AWS::EC2::Instance"
}

// Instance_BlockDeviceMapping attaches a volume at DeviceName.
type Instance_BlockDeviceMapping struct {
	DeviceName any           `json:"DeviceName,omitempty"`
	Ebs        *Instance_Ebs `json:"Ebs,omitempty"`
}

// Instance_Ebs describes an EBS volume created with the instance.
type Instance_Ebs struct {
	DeleteOnTermination any `json:"DeleteOnTermination,omitempty"`
	Encrypted           any `json:"Encrypted,omitempty"`
	VolumeSize          any `json:"VolumeSize,omitempty"`
	VolumeType          any `json:"VolumeType,omitempty"`
}
