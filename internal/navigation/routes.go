// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package navigation holds the console's route tables and the logic that picks,
// filters and lays out the side navigation for the active perspective.
package navigation

// Page identifies the screen a route renders.
type Page string

// Pages known to the console.
const (
	PageOverview          Page = "overview"
	PageWelcome           Page = "welcome"
	PageClusters          Page = "clusters"
	PageClusterDetails    Page = "cluster-details"
	PageInstanceTypes     Page = "instance-types"
	PageVirtualMachines   Page = "virtual-machines"
	PageUsers             Page = "users"
	PageGroups            Page = "groups"
	PageIdentities        Page = "identities"
	PageRoles             Page = "roles"
	PageRoleAssignments   Page = "role-assignments"
	PageRoleAssignmentNew Page = "role-assignment-wizard"
	PagePlaceholder       Page = "placeholder"
	PageNotFound          Page = "not-found"
)

// Route is a routable path. Routes without a label are reachable but not shown in
// the navigation.
type Route struct {
	Label string `json:"label,omitempty"`
	Path  string `json:"path"`
	Page  Page   `json:"page"`
}

// RouteGroup is one navigation section.
type RouteGroup struct {
	Label    string  `json:"label"`
	Routes   []Route `json:"routes"`
	Disabled bool    `json:"disabled,omitempty"`
}

// Group labels with special handling.
const (
	GroupCorePlatforms  = "Core Platforms"
	GroupUserManagement = "User management"
)

// Well-known paths.
const (
	VirtualMachinesPath = "/multicloud/virtualization/virtual-machines"
	InstanceTypesPath   = "/multicloud/virtualization/instancetypes"
	ClustersPath        = "/multicloud/infrastructure/clusters"
	WelcomePath         = "/multicloud/welcome"
	CoreOverviewPath    = "/k8s/cluster/overview"
	VirtOverviewPath    = "/multicloud/virtualization/overview"

	RoleAssignmentsPath   = "/multicloud/user-management/role-assignments"
	RoleAssignmentNewPath = RoleAssignmentsPath + "/new"
)

// NotFoundRoute is rendered when no configured route matches.
func NotFoundRoute(path string) Route {
	return Route{Label: "Not found", Path: path, Page: PageNotFound}
}

// userManagementRoutes are shared by the fleet trees.
func userManagementRoutes() []Route {
	return []Route{
		{Label: "Identities", Path: "/multicloud/user-management/identities", Page: PageIdentities},
		{Label: "Roles", Path: "/multicloud/user-management/roles", Page: PageRoles},
		{Label: "Role assignments", Path: RoleAssignmentsPath, Page: PageRoleAssignments},
		{Path: RoleAssignmentNewPath, Page: PageRoleAssignmentNew},
	}
}

// CoreTree is the route table of the Core platforms perspective.
func CoreTree() []RouteGroup {
	return []RouteGroup{
		{
			Label: GroupCorePlatforms,
			Routes: []Route{
				{Label: "Overview", Path: CoreOverviewPath, Page: PageOverview},
				{Label: "Cluster settings", Path: "/k8s/cluster/settings", Page: PagePlaceholder},
			},
		},
		{
			Label: "Workloads",
			Routes: []Route{
				{Label: "Pods", Path: "/k8s/all-namespaces/pods", Page: PagePlaceholder},
				{Label: "Virtual machines", Path: "/k8s/all-namespaces/virtual-machines", Page: PageVirtualMachines},
			},
		},
		{
			Label:    "Operators",
			Disabled: true,
			Routes: []Route{
				{Label: "OperatorHub", Path: "/k8s/operatorhub", Page: PagePlaceholder},
			},
		},
		{
			Label: GroupUserManagement,
			Routes: []Route{
				{Label: "Users", Path: "/k8s/user-management/users", Page: PageUsers},
				{Label: "Groups", Path: "/k8s/user-management/groups", Page: PageGroups},
				{Label: "Roles", Path: "/k8s/user-management/roles", Page: PageRoles},
			},
		},
	}
}

// GeneralTree is the route table of the Fleet management perspective. It still
// carries the Core Platforms entry point, which the resolver removes.
func GeneralTree() []RouteGroup {
	return []RouteGroup{
		{
			Label: GroupCorePlatforms,
			Routes: []Route{
				{Label: "Overview", Path: CoreOverviewPath, Page: PageOverview},
			},
		},
		{
			Label: "",
			Routes: []Route{
				{Label: "Welcome", Path: WelcomePath, Page: PageWelcome},
				{Label: "Overview", Path: "/multicloud/home/overview", Page: PageOverview},
			},
		},
		{
			Label: "Infrastructure",
			Routes: []Route{
				{Label: "Clusters", Path: ClustersPath, Page: PageClusters},
				{Path: ClustersPath + "/details", Page: PageClusterDetails},
				{Label: "Automation", Path: "/multicloud/infrastructure/automations", Page: PagePlaceholder},
				{Label: "Host inventory", Path: "/multicloud/infrastructure/environments", Page: PagePlaceholder},
			},
		},
		{
			Label:  "Applications",
			Routes: []Route{},
		},
		{
			Label: "Governance",
			Routes: []Route{
				{Label: "Policies", Path: "/multicloud/governance/policies", Page: PagePlaceholder},
			},
		},
		{
			Label:  GroupUserManagement,
			Routes: userManagementRoutes(),
		},
		{
			Label:    "Credentials",
			Disabled: true,
			Routes: []Route{
				{Label: "Credentials", Path: "/multicloud/credentials", Page: PagePlaceholder},
			},
		},
	}
}

// VirtualizationTree is the route table of the Fleet virtualization perspective.
func VirtualizationTree() []RouteGroup {
	return []RouteGroup{
		{
			Label: "",
			Routes: []Route{
				{Label: "Overview", Path: VirtOverviewPath, Page: PageOverview},
			},
		},
		{
			Label: "Virtualization",
			Routes: []Route{
				{Label: "Virtual machines", Path: VirtualMachinesPath, Page: PageVirtualMachines},
				{Label: "InstanceTypes", Path: InstanceTypesPath, Page: PageInstanceTypes},
				{Label: "Templates", Path: "/multicloud/virtualization/templates", Page: PagePlaceholder},
			},
		},
		{
			Label: "",
			Routes: []Route{
				{Label: "Catalog", Path: "/multicloud/virtualization/catalog", Page: PagePlaceholder},
			},
		},
		{
			Label:    "Migration",
			Disabled: true,
			Routes: []Route{
				{Label: "Migration plans", Path: "/multicloud/virtualization/migration", Page: PagePlaceholder},
			},
		},
		{
			Label:  GroupUserManagement,
			Routes: userManagementRoutes(),
		},
	}
}
