// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package kube reads migration resources from Forklift custom resources on an
// OpenShift or Kubernetes cluster.
package kube

import (
	"fmt"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// BuildConfig returns the in-cluster config when running in a pod and
// otherwise loads kubeconfig. An explicit path wins over $KUBECONFIG.
func BuildConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			return cfg, nil
		}
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}
	return cfg, nil
}

// CurrentContext returns the kubeconfig context name, or "unknown".
func CurrentContext(kubeconfig string) string {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	raw, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).RawConfig()
	if err != nil {
		return "unknown"
	}
	if raw.CurrentContext == "" {
		return "default"
	}
	return raw.CurrentContext
}

// NewDynamic creates a dynamic client for the given kubeconfig.
func NewDynamic(kubeconfig string) (dynamic.Interface, error) {
	cfg, err := BuildConfig(kubeconfig)
	if err != nil {
		return nil, err
	}
	client, err := dynamic.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}
	return client, nil
}
