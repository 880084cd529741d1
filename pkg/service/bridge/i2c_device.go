//    Copyright 2026 Ewout Prangsma
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//        http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package bridge

import (
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// From  /usr/include/linux/i2c-dev.h:
	// ioctl signals
	I2C_SLAVE = 0x0703
	I2C_FUNCS = 0x0705
	I2C_SMBUS = 0x0720
	// Read/write markers
	I2C_SMBUS_READ  = 1
	I2C_SMBUS_WRITE = 0

	// From  /usr/include/linux/i2c.h:
	// Adapter functionality
	I2C_FUNC_SMBUS_READ_BYTE       = 0x00020000
	I2C_FUNC_SMBUS_READ_I2C_BLOCK  = 0x04000000 /* I2C-like block xfer  */
	I2C_FUNC_SMBUS_WRITE_I2C_BLOCK = 0x08000000 /* w/ 1-byte reg. addr. */

	// Transaction types
	I2C_SMBUS_BYTE           = 1
	I2C_SMBUS_I2C_BLOCK_DATA = 8 /* SMBus 2.0 */

	// Size of union i2c_smbus_data: length byte + 32 data bytes + PEC.
	i2cSmbusBlockSize = MaxBlockLength + 2
)

type i2cSmbusIoctlData struct {
	readWrite byte
	command   byte
	size      uint32
	data      uintptr
}

type i2cDevice struct {
	address uint8
	mutex   sync.Mutex
	file    *os.File
	funcs   uint64 // adapter functionality mask
}

// newI2CDevice returns accessors the the I2C address at the given location & address.
func newI2CDevice(location string, address uint8) (*i2cDevice, error) {
	d := &i2cDevice{
		address: address,
	}

	var err error
	if d.file, err = os.OpenFile(location, os.O_RDWR, os.ModeDevice); err != nil {
		return nil, maskAny(err)
	}
	if err := d.queryFunctionality(); err != nil {
		d.file.Close()
		return nil, err
	}
	if err := d.setAddress(address); err != nil {
		d.file.Close()
		return nil, err
	}
	return d, nil
}

func (d *i2cDevice) queryFunctionality() error {
	if err := d.ioctl(I2C_FUNCS, uintptr(unsafe.Pointer(&d.funcs))); err != nil {
		return errors.Wrap(err, "querying functionality failed")
	}
	return nil
}

func (d *i2cDevice) setAddress(address byte) error {
	if err := d.ioctl(I2C_SLAVE, uintptr(address)); err != nil {
		return errors.Wrapf(err, "setting address 0x%02x failed", address)
	}
	return nil
}

func (d *i2cDevice) closeFile() error {
	return d.file.Close()
}

// Read a single byte from the device
func (d *i2cDevice) ReadByte() (uint8, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.funcs&I2C_FUNC_SMBUS_READ_BYTE == 0 {
		return 0, errors.Wrap(UnsupportedError, "SMBus read byte")
	}
	var data uint8
	if err := d.smbusAccess(I2C_SMBUS_READ, 0, I2C_SMBUS_BYTE, uintptr(unsafe.Pointer(&data))); err != nil {
		return 0, errors.Wrapf(err, "readByte[0x%02x] failed", d.address)
	}
	return data, nil
}

// Write a block of data to given register
func (d *i2cDevice) WriteBlockData(reg uint8, data []byte) error {
	if err := ValidateBlock(data); err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.funcs&I2C_FUNC_SMBUS_WRITE_I2C_BLOCK == 0 {
		return errors.Wrap(UnsupportedError, "SMBus write i2c block")
	}
	var block [i2cSmbusBlockSize]byte
	block[0] = byte(len(data))
	copy(block[1:], data)
	if err := d.smbusAccess(I2C_SMBUS_WRITE, reg, I2C_SMBUS_I2C_BLOCK_DATA, uintptr(unsafe.Pointer(&block))); err != nil {
		return errors.Wrapf(err, "writeBlockData[0x%02x](0x%02x, % x) failed", d.address, reg, data)
	}
	return nil
}

// Read n bytes starting at given register
func (d *i2cDevice) ReadBlockData(reg uint8, n int) ([]byte, error) {
	if err := ValidateReadLength(n); err != nil {
		return nil, err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.funcs&I2C_FUNC_SMBUS_READ_I2C_BLOCK == 0 {
		return nil, errors.Wrap(UnsupportedError, "SMBus read i2c block")
	}
	var block [i2cSmbusBlockSize]byte
	block[0] = byte(n)
	if err := d.smbusAccess(I2C_SMBUS_READ, reg, I2C_SMBUS_I2C_BLOCK_DATA, uintptr(unsafe.Pointer(&block))); err != nil {
		return nil, errors.Wrapf(err, "readBlockData[0x%02x](0x%02x, %d) failed", d.address, reg, n)
	}
	if int(block[0]) != n {
		return nil, errors.Errorf("readBlockData[0x%02x] returned %d bytes, expected %d", d.address, block[0], n)
	}
	result := make([]byte, n)
	copy(result, block[1:1+n])
	return result, nil
}

func (d *i2cDevice) smbusAccess(readWrite byte, command byte, size uint32, data uintptr) error {
	smbus := &i2cSmbusIoctlData{
		readWrite: readWrite,
		command:   command,
		size:      size,
		data:      data,
	}
	return d.ioctl(I2C_SMBUS, uintptr(unsafe.Pointer(smbus)))
}

func (d *i2cDevice) ioctl(req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), req, arg)
	if errno != 0 {
		return errors.Wrapf(errno, "ioctl(0x%04x) failed", req)
	}
	return nil
}
