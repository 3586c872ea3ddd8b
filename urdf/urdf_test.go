package urdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigidkin/rbd/errs"
)

const twoLinkArm = `
<robot name="arm">
  <link name="base">
    <inertial>
      <mass value="1.0"/>
      <inertia ixx="0.01" ixy="0" ixz="0" iyy="0.01" iyz="0" izz="0.01"/>
    </inertial>
  </link>
  <link name="tip"/>
  <joint name="shoulder" type="revolute">
    <parent link="base"/>
    <child link="tip"/>
    <origin xyz="0 0 0.1" rpy="0 0 0"/>
    <axis xyz="0 0 2"/>
    <limit lower="-1.5" upper="1.5"/>
  </joint>
</robot>
`

func TestParseBuildsFinalizedModel(t *testing.T) {
	m, err := Parse([]byte(twoLinkArm))
	require.NoError(t, err)
	assert.True(t, m.IsFinalized())
	assert.Equal(t, 1, m.NQ)
	assert.Equal(t, 1, m.NV)
}

func TestParseNormalizesAxis(t *testing.T) {
	m, err := Parse([]byte(twoLinkArm))
	require.NoError(t, err)
	j := m.JointIndex("shoulder")
	require.GreaterOrEqual(t, j, 0)
	assert.InDelta(t, 1.0, m.Joints[j].Axis.Len(), 1e-12)
	assert.InDelta(t, 1.0, m.Joints[j].Axis.Z(), 1e-12)
}

func TestParseReadsJointLimits(t *testing.T) {
	m, err := Parse([]byte(twoLinkArm))
	require.NoError(t, err)
	j := m.JointIndex("shoulder")
	assert.InDelta(t, -1.5, m.Joints[j].Lower, 1e-12)
	assert.InDelta(t, 1.5, m.Joints[j].Upper, 1e-12)
}

func TestParseReadsInertial(t *testing.T) {
	m, err := Parse([]byte(twoLinkArm))
	require.NoError(t, err)
	root := m.JointIndex("base_root")
	require.GreaterOrEqual(t, root, 0)
	assert.InDelta(t, 1.0, m.Links[m.Joints[root].Child].Inertia.Mass, 1e-12)
}

func TestParseMissingInertialIsZero(t *testing.T) {
	m, err := Parse([]byte(twoLinkArm))
	require.NoError(t, err)
	tipJoint := m.JointIndex("shoulder")
	require.GreaterOrEqual(t, tipJoint, 0)
	assert.Equal(t, 0.0, m.Links[m.Joints[tipJoint].Child].Inertia.Mass)
}

const continuousJoint = `
<robot name="wheel">
  <link name="base"/>
  <link name="wheel"/>
  <joint name="axle" type="continuous">
    <parent link="base"/>
    <child link="wheel"/>
  </joint>
</robot>
`

func TestParseContinuousJointDefaultsToPlusMinusPi(t *testing.T) {
	m, err := Parse([]byte(continuousJoint))
	require.NoError(t, err)
	j := m.JointIndex("axle")
	assert.InDelta(t, -math.Pi, m.Joints[j].Lower, 1e-12)
	assert.InDelta(t, math.Pi, m.Joints[j].Upper, 1e-12)
}

const unsupportedJoint = `
<robot name="bad">
  <link name="base"/>
  <link name="tip"/>
  <joint name="weird" type="spherical">
    <parent link="base"/>
    <child link="tip"/>
  </joint>
</robot>
`

func TestParseUnsupportedJointTypeErrors(t *testing.T) {
	_, err := Parse([]byte(unsupportedJoint))
	require.Error(t, err)
	assert.IsType(t, &errs.UnsupportedJointType{}, err)
}

const multipleRoots = `
<robot name="tworoots">
  <link name="a"/>
  <link name="b"/>
</robot>
`

func TestParseMultipleRootsErrors(t *testing.T) {
	_, err := Parse([]byte(multipleRoots))
	require.Error(t, err)
}

const cyclicModel = `
<robot name="cycle">
  <link name="a"/>
  <link name="b"/>
  <joint name="j1" type="fixed">
    <parent link="a"/>
    <child link="b"/>
  </joint>
  <joint name="j2" type="fixed">
    <parent link="b"/>
    <child link="a"/>
  </joint>
</robot>
`

func TestParseCyclicModelErrors(t *testing.T) {
	_, err := Parse([]byte(cyclicModel))
	require.Error(t, err)
}

func TestParseMalformedXMLErrors(t *testing.T) {
	_, err := Parse([]byte("<robot name=\"broken\">"))
	require.Error(t, err)
	assert.IsType(t, &errs.ParseError{}, err)
}
