package main

import (
	"context"
	"fmt"

	"github.com/igheddx/tipply/internal/shared"
	"github.com/urfave/cli/v3"
)

// DeviceList lists the performer's registered QR-code devices.
func (r *Runner) DeviceList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing devices")

	devices, err := r.svc.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(devices, pretty)
	}

	if len(devices) == 0 {
		r.writePlain("No devices registered. Use 'tipply device register' to add one.\n")
		return nil
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, d := range devices {
		r.writePlain("%d. %s\n", i+1, d.Label)
		r.writePlain("   ID: %s\n", d.ID)
		r.writePlain("   Tip URL: %s\n", d.TipURL)
		if d.Active {
			r.writePlain("   Status: Active\n")
		} else {
			r.writePlain("   Status: Inactive\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// DeviceRegister registers a new QR-code device with the given label.
func (r *Runner) DeviceRegister(ctx context.Context, cmd *cli.Command) error {
	label := cmd.StringArg("label")

	if label == "" {
		return fmt.Errorf("%w: device label is required", shared.ErrMissingArgument)
	}

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("registering device %q", label)

	device, err := r.svc.RegisterDevice(ctx, label)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Device registered: %s\n", device.Label)
	r.writePlain("  ID: %s\n", device.ID)
	r.writePlain("  Tip URL: %s\n", device.TipURL)
	r.writePlain("\nPrint a QR code pointing at the tip URL and attach it to the device.\n")

	return nil
}

// DeviceRemove unregisters a device by ID.
func (r *Runner) DeviceRemove(ctx context.Context, cmd *cli.Command) error {
	deviceID := cmd.StringArg("id")

	if deviceID == "" {
		return fmt.Errorf("%w: device ID is required", shared.ErrMissingArgument)
	}

	if r.svc == nil {
		return fmt.Errorf("%w: Tipply service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("removing device %v", deviceID)

	if err := r.svc.RemoveDevice(ctx, deviceID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Device %s removed\n", deviceID)
	return nil
}
