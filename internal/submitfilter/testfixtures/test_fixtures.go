package testfixtures

import (
	"strings"

	"github.com/G-Research/submitfilter/internal/submitfilter/configuration"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

// Partition descriptions as printed by `scontrol -o show partition`.
var (
	WorkPartition = "PartitionName=work AllowGroups=ALL AllowAccounts=ALL AllowQos=ALL AllocNodes=ALL " +
		"Default=YES QoS=N/A DefaultTime=01:00:00 DisableRootJobs=NO ExclusiveUser=NO GraceTime=0 Hidden=NO " +
		"MaxNodes=UNLIMITED MaxTime=1-00:00:00 MinNodes=0 LLN=NO MaxCPUsPerNode=UNLIMITED " +
		"Nodes=nid[001000-001007] PriorityJobFactor=1 PriorityTier=1 RootOnly=NO ReqResv=NO OverSubscribe=NO " +
		"OverTimeLimit=NONE PreemptMode=OFF State=UP TotalCPUs=2048 TotalNodes=8 SelectTypeParameters=NONE " +
		"JobDefaults=(null) DefMemPerCPU=920 MaxMemPerNode=UNLIMITED " +
		"TRES=cpu=2048,mem=1960000M,node=8,billing=2048"

	GpuPartition = "PartitionName=gpu AllowGroups=ALL AllowAccounts=ALL AllowQos=ALL AllocNodes=ALL " +
		"Default=NO QoS=N/A DefaultTime=01:00:00 DisableRootJobs=NO ExclusiveUser=NO GraceTime=0 Hidden=NO " +
		"MaxNodes=UNLIMITED MaxTime=1-00:00:00 MinNodes=0 LLN=NO MaxCPUsPerNode=UNLIMITED " +
		"Nodes=nid[002000-002003] PriorityJobFactor=1 PriorityTier=1 RootOnly=NO ReqResv=NO OverSubscribe=NO " +
		"OverTimeLimit=NONE PreemptMode=OFF State=UP TotalCPUs=512 TotalNodes=4 SelectTypeParameters=NONE " +
		"JobDefaults=DefMemPerGPU=29440 DefMemPerNode=UNLIMITED MaxMemPerNode=UNLIMITED " +
		"TRES=cpu=512,mem=980000M,node=4,billing=2048,gres/gpu=32 " +
		"TRESBillingWeights=CPU=1,gres/GPU=64"

	// An accelerator partition without JobDefaults.
	GpuDevPartition = "PartitionName=gpu-dev Default=NO State=UP TotalCPUs=128 TotalNodes=1 " +
		"JobDefaults=(null) TRES=cpu=128,mem=245000M,node=1,billing=512,gres/gpu=8"

	// A partition whose memory defaults can't be used.
	BrokenPartition = "PartitionName=broken Default=NO State=UP TotalCPUs=64 TotalNodes=0 " +
		"JobDefaults=(null) DefMemPerCPU=UNLIMITED TRES=cpu=64"
)

// Partitions returns a source serving all fixture partitions.
func Partitions() *partition.StaticSource {
	return partition.NewStaticSource(WorkPartition, GpuPartition, GpuDevPartition, BrokenPartition)
}

// PartitionsWithoutDefault returns the fixture partitions with no partition marked as default.
func PartitionsWithoutDefault() *partition.StaticSource {
	return partition.NewStaticSource(
		strings.ReplaceAll(WorkPartition, "Default=YES", "Default=NO"),
		GpuPartition,
		GpuDevPartition,
		BrokenPartition)
}

func DefaultPolicyConfig() configuration.PolicyConfig {
	return configuration.DefaultPolicyConfig()
}
