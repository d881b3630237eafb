package status

import (
	"context"
	"fmt"
	"time"

	"github.com/litmuschaos/chaosmesh-runner/pkg/cerrors"
	"github.com/litmuschaos/chaosmesh-runner/pkg/chaosmesh/types"
	"github.com/litmuschaos/chaosmesh-runner/pkg/clients"
	"github.com/litmuschaos/chaosmesh-runner/pkg/log"
	"github.com/litmuschaos/chaosmesh-runner/pkg/utils/retry"
	"github.com/sirupsen/logrus"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// CheckApplicationStatus checks that every pod matching the label is running and its containers are ready
func CheckApplicationStatus(ctx context.Context, appNs, appLabel, containerName string, timeout, delay int, clients clients.ClientSets) error {
	if appLabel == "" {
		log.Info("[Status]: No appLabels provided, skipping the application status checks")
		return nil
	}

	log.Info("[Status]: Checking whether application pods are in running state")
	return retryModel(timeout, delay).
		TryWithContext(ctx, func(attempt uint) error {
			podList, err := clients.KubeClient.CoreV1().Pods(appNs).List(ctx, metav1.ListOptions{LabelSelector: appLabel})
			if err != nil {
				return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podLabel: %s, namespace: %s}", appLabel, appNs), Reason: err.Error()}
			} else if len(podList.Items) == 0 {
				return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podLabel: %s, namespace: %s}", appLabel, appNs), Reason: "no pod found with matching labels"}
			}
			for _, pod := range podList.Items {
				if err := validatePodStatus(&pod, containerName); err != nil {
					return err
				}
			}
			return nil
		})
}

// CheckTargetPodStatus checks that the target pod is running and its database container is ready
func CheckTargetPodStatus(ctx context.Context, target types.TargetPod, timeout, delay int, clients clients.ClientSets) error {
	log.Infof("[Status]: Checking whether %v pod is in running state", target.Name)
	return retryModel(timeout, delay).
		TryWithContext(ctx, func(attempt uint) error {
			pod, err := clients.KubeClient.CoreV1().Pods(target.Namespace).Get(ctx, target.Name, metav1.GetOptions{})
			if err != nil {
				return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podName: %s, namespace: %s}", target.Name, target.Namespace), Reason: err.Error()}
			}
			return validatePodStatus(pod, target.Container)
		})
}

func validatePodStatus(pod *v1.Pod, containerName string) error {
	if pod.Status.Phase != v1.PodRunning {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podName: %s, namespace: %s}", pod.Name, pod.Namespace), Reason: fmt.Sprintf("pod is not yet in running state, phase: %v", pod.Status.Phase)}
	}
	if containerName == "" {
		for _, container := range pod.Status.ContainerStatuses {
			if err := validateContainerStatus(container.Name, pod, pod.Status.ContainerStatuses); err != nil {
				return err
			}
		}
	} else if err := validateContainerStatus(containerName, pod, pod.Status.ContainerStatuses); err != nil {
		return err
	}
	log.InfoWithValues("[Status]: The status of Pods are as follows", logrus.Fields{
		"Pod": pod.Name, "Status": pod.Status.Phase})
	return nil
}

// validateContainerStatus verify that the provided container should be in ready state
func validateContainerStatus(containerName string, pod *v1.Pod, containerStatuses []v1.ContainerStatus) error {
	target := fmt.Sprintf("{podName: %s, namespace: %s, container: %s}", pod.Name, pod.Namespace, containerName)
	for _, container := range containerStatuses {
		if container.Name != containerName {
			continue
		}
		if container.State.Terminated != nil {
			return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: target, Reason: "container is in terminated state"}
		}
		if !container.Ready {
			return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: target, Reason: "container is not yet in ready state"}
		}
		log.InfoWithValues("[Status]: The Container status are as follows", logrus.Fields{
			"container": container.Name, "Pod": pod.Name, "Readiness": container.Ready})
		return nil
	}
	return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: target, Reason: "container not found"}
}

// retryModel retries every delay seconds until timeout seconds elapse, at least once
func retryModel(timeout, delay int) *retry.Model {
	attempts := 1
	if delay > 0 && timeout/delay > 1 {
		attempts = timeout / delay
	}
	return retry.Times(uint(attempts)).Wait(time.Duration(delay) * time.Second)
}

// AUTStatusCheck checks the application under test (pre and post chaos): all the pods matching
// the application label, then the target pod
func AUTStatusCheck(ctx context.Context, experimentsDetails *types.ExperimentDetails, clients clients.ClientSets) error {
	if err := CheckApplicationStatus(ctx, experimentsDetails.AppNS, experimentsDetails.AppLabel, experimentsDetails.TargetContainer, experimentsDetails.Timeout, experimentsDetails.Delay, clients); err != nil {
		return err
	}
	target := types.TargetPod{Name: experimentsDetails.TargetPod, Namespace: experimentsDetails.AppNS, Container: experimentsDetails.TargetContainer}
	return CheckTargetPodStatus(ctx, target, experimentsDetails.Timeout, experimentsDetails.Delay, clients)
}

// SelectTargetPod picks the first application pod when no target pod is configured
func SelectTargetPod(ctx context.Context, experimentsDetails *types.ExperimentDetails, clients clients.ClientSets) error {
	if experimentsDetails.TargetPod != "" {
		return nil
	}
	podList, err := clients.ListPods(ctx, experimentsDetails.AppNS, experimentsDetails.AppLabel)
	if err != nil {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podLabel: %s, namespace: %s}", experimentsDetails.AppLabel, experimentsDetails.AppNS), Reason: err.Error()}
	}
	if len(podList.Items) == 0 {
		return cerrors.Error{ErrorCode: cerrors.ErrorTypeStatusChecks, Target: fmt.Sprintf("{podLabel: %s, namespace: %s}", experimentsDetails.AppLabel, experimentsDetails.AppNS), Reason: "no target pod found, set TARGET_POD"}
	}
	experimentsDetails.TargetPod = podList.Items[0].Name
	log.Infof("[Info]: No target pod provided, %v pod selected", experimentsDetails.TargetPod)
	return nil
}
