package kubernetes

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apiextensionsclientset "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"

	"github.com/rh-perfscale/cnv-scale/pkg/vm"
)

// rootCACertConfigMap is auto-created in every namespace and never counts as a
// reason to keep one alive.
const rootCACertConfigMap = "kube-root-ca.crt"

// Cluster is the capability surface the orchestration layer runs against.
// Unit tests substitute fake clients; dry-run wraps it with no-op mutations.
type Cluster interface {
	GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error)
	CreateNamespace(ctx context.Context, name string, labels map[string]string) error
	DeleteNamespace(ctx context.Context, name string) error
	ListLabeledNamespaces(ctx context.Context) ([]corev1.Namespace, error)

	// ListVMs returns VirtualMachines in the namespace, restricted to managed
	// ones when labeledOnly is set.
	ListVMs(ctx context.Context, namespace string, labeledOnly bool) ([]unstructured.Unstructured, error)
	CreateVM(ctx context.Context, manifest *unstructured.Unstructured) error
	DeleteVM(ctx context.Context, namespace, name string) error

	// HasBlockingResources reports whether the namespace holds anything beyond
	// the auto-created defaults: pods, or configmaps other than kube-root-ca.crt.
	HasBlockingResources(ctx context.Context, namespace string) (bool, error)
}

// ClusterClient implements Cluster against a live API server.
type ClusterClient struct {
	clientset           kubernetes.Interface
	dynamicClient       dynamic.Interface
	apiextensionsClient apiextensionsclientset.Interface
}

// NewClusterClient wraps the typed and dynamic clients.
func NewClusterClient(clientset kubernetes.Interface, dynamicClient dynamic.Interface) *ClusterClient {
	return &ClusterClient{
		clientset:     clientset,
		dynamicClient: dynamicClient,
	}
}

// Clientset exposes the typed client for callers that need it directly,
// such as the RBAC preflight.
func (c *ClusterClient) Clientset() kubernetes.Interface {
	return c.clientset
}

// ApiextensionsClientset exposes the apiextensions client used by the CRD
// preflight.
func (c *ClusterClient) ApiextensionsClientset() apiextensionsclientset.Interface {
	return c.apiextensionsClient
}

func (c *ClusterClient) GetNamespace(ctx context.Context, name string) (*corev1.Namespace, error) {
	return c.clientset.CoreV1().Namespaces().Get(ctx, name, metav1.GetOptions{})
}

func (c *ClusterClient) CreateNamespace(ctx context.Context, name string, labels map[string]string) error {
	namespace := &corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{
			Name:   name,
			Labels: labels,
		},
	}
	_, err := c.clientset.CoreV1().Namespaces().Create(ctx, namespace, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	return nil
}

func (c *ClusterClient) DeleteNamespace(ctx context.Context, name string) error {
	if err := c.clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
		return fmt.Errorf("failed to delete namespace %s: %w", name, err)
	}
	return nil
}

func (c *ClusterClient) ListLabeledNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{
		LabelSelector: vm.LabelSelector(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list labeled namespaces: %w", err)
	}
	return list.Items, nil
}

func (c *ClusterClient) ListVMs(ctx context.Context, namespace string, labeledOnly bool) ([]unstructured.Unstructured, error) {
	opts := metav1.ListOptions{}
	if labeledOnly {
		opts.LabelSelector = vm.LabelSelector()
	}
	list, err := c.dynamicClient.Resource(vm.VMGVR).Namespace(namespace).List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list virtual machines in %s: %w", namespace, err)
	}
	return list.Items, nil
}

func (c *ClusterClient) CreateVM(ctx context.Context, manifest *unstructured.Unstructured) error {
	namespace := manifest.GetNamespace()
	_, err := c.dynamicClient.Resource(vm.VMGVR).Namespace(namespace).Create(ctx, manifest, metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create virtual machine %s/%s: %w", namespace, manifest.GetName(), err)
	}
	return nil
}

func (c *ClusterClient) DeleteVM(ctx context.Context, namespace, name string) error {
	err := c.dynamicClient.Resource(vm.VMGVR).Namespace(namespace).Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete virtual machine %s/%s: %w", namespace, name, err)
	}
	return nil
}

func (c *ClusterClient) HasBlockingResources(ctx context.Context, namespace string) (bool, error) {
	pods, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list pods in %s: %w", namespace, err)
	}
	if len(pods.Items) > 0 {
		return true, nil
	}
	configMaps, err := c.clientset.CoreV1().ConfigMaps(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to list configmaps in %s: %w", namespace, err)
	}
	for _, cm := range configMaps.Items {
		if cm.Name != rootCACertConfigMap {
			return true, nil
		}
	}
	return false, nil
}
