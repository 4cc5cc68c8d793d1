// Package rbac verifies, before any work starts, that the current identity
// holds the permissions a run will need. Missing permissions are a setup
// error: the run aborts before touching the cluster.
package rbac

import (
	"context"
	"fmt"
	"strings"

	authv1 "k8s.io/api/authorization/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// vmCRDName is the CustomResourceDefinition name backing the VirtualMachine
// resource; it is present on any cluster with KubeVirt installed.
var vmCRDName = vm.VMGVR.Resource + "." + vm.VMGVR.Group

// RequiredPermission is one verb on one resource to be verified.
type RequiredPermission struct {
	APIGroup string
	Resource string
	Verb     string
}

// CreatePermissions returns the permissions a create run needs.
func CreatePermissions() []RequiredPermission {
	return []RequiredPermission{
		{APIGroup: "apiextensions.k8s.io", Resource: "customresourcedefinitions", Verb: "get"},
		{APIGroup: "", Resource: "namespaces", Verb: "get"},
		{APIGroup: "", Resource: "namespaces", Verb: "create"},
		{APIGroup: vm.VMGVR.Group, Resource: vm.VMGVR.Resource, Verb: "create"},
	}
}

// DeletePermissions returns the permissions a delete run needs.
func DeletePermissions() []RequiredPermission {
	return []RequiredPermission{
		{APIGroup: "apiextensions.k8s.io", Resource: "customresourcedefinitions", Verb: "get"},
		{APIGroup: "", Resource: "namespaces", Verb: "get"},
		{APIGroup: "", Resource: "namespaces", Verb: "list"},
		{APIGroup: "", Resource: "namespaces", Verb: "delete"},
		{APIGroup: "", Resource: "pods", Verb: "list"},
		{APIGroup: "", Resource: "configmaps", Verb: "list"},
		{APIGroup: vm.VMGVR.Group, Resource: vm.VMGVR.Resource, Verb: "list"},
		{APIGroup: vm.VMGVR.Group, Resource: vm.VMGVR.Resource, Verb: "delete"},
	}
}

// VerifyPermissions checks every permission through SelfSubjectAccessReview
// and returns an error listing the missing ones.
func VerifyPermissions(ctx context.Context, clientset kubernetes.Interface, permissions []RequiredPermission) error {
	var missing []string
	for _, perm := range permissions {
		allowed, err := CheckPermission(ctx, clientset, perm)
		if err != nil {
			return fmt.Errorf("failed to check permission %s/%s:%s: %w", perm.APIGroup, perm.Resource, perm.Verb, err)
		}
		if !allowed {
			missing = append(missing, fmt.Sprintf("  - %s %s.%s", perm.Verb, perm.Resource, perm.APIGroup))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required RBAC permissions:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}

// VerifyCRDExists checks that the VirtualMachine CRD is installed and
// established, so a cluster without KubeVirt fails before any work starts.
func VerifyCRDExists(ctx context.Context, client apiextensionsclientset.Interface) error {
	crd, err := client.ApiextensionsV1().CustomResourceDefinitions().Get(ctx, vmCRDName, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("VirtualMachine CRD not found, is KubeVirt installed: %w", err)
	}
	for _, condition := range crd.Status.Conditions {
		if condition.Type == apiextensionsv1.Established && condition.Status == apiextensionsv1.ConditionTrue {
			return nil
		}
	}
	return fmt.Errorf("VirtualMachine CRD %s exists but is not established", vmCRDName)
}

// CheckPermission verifies a single permission cluster-wide.
func CheckPermission(ctx context.Context, clientset kubernetes.Interface, perm RequiredPermission) (bool, error) {
	sar := &authv1.SelfSubjectAccessReview{
		Spec: authv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authv1.ResourceAttributes{
				Verb:     perm.Verb,
				Group:    perm.APIGroup,
				Resource: perm.Resource,
			},
		},
	}

	result, err := clientset.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, sar, metav1.CreateOptions{})
	if err != nil {
		return false, err
	}
	return result.Status.Allowed, nil
}
