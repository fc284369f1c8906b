package ssm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmazonLinux2023(t *testing.T) {
	assert.Equal(t, "/aws/service/ami-amazon-linux-latest/al2023-ami-kernel-default-x86_64", AmazonLinux2023("x86_64"))
}
