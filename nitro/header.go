/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  header.go - Capçalera dels cartutxos de Nintendo DS.
 */

package nitro

import (
  "bytes"
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Grandària de la capçalera.
const HEADER_SIZE = 0x200

// Grandària de la icona/banner.
const ICON_SIZE = 0x840

type NDS_Binary struct {

  Offset int64
  Entry  uint32
  Load   uint32
  Size   int64

}

type NDS_Table struct {

  Offset int64
  Size   int64

}

type NDSHeader struct {

  GameTitle   string
  GameCode    string
  MakerCode   string
  UnitCode    uint8

  Arm9 NDS_Binary
  Arm7 NDS_Binary

  FNT NDS_Table
  FAT NDS_Table

  Arm9Overlay NDS_Table
  Arm7Overlay NDS_Table

  IconOffset int64

  LogoCRC   uint16
  HeaderCRC uint16

}


/************/
/* FUNCIONS */
/************/

// CRC-16 amb polinomi 0xA001 i valor inicial 0xFFFF, el que empren
// les capçaleres DS.
func crc16( data []byte ) uint16 {

  var crc uint16= 0xFFFF
  for _,b:= range data {
    crc^= uint16(b)
    for i:= 0; i < 8; i++ {
      if (crc&1) != 0 {
        crc= (crc>>1) ^ 0xA001
      } else {
        crc>>= 1
      }
    }
  }

  return crc

} // end crc16


func readBin( buf []byte, offset int ) NDS_Binary {
  return NDS_Binary{
    Offset: int64(readU32 ( buf, offset )),
    Entry: readU32 ( buf, offset+4 ),
    Load: readU32 ( buf, offset+8 ),
    Size: int64(readU32 ( buf, offset+12 )),
  }
} // end readBin


func readTable( buf []byte, offset int ) NDS_Table {
  return NDS_Table{
    Offset: int64(readU32 ( buf, offset )),
    Size: int64(readU32 ( buf, offset+4 )),
  }
} // end readTable


func readU32( buf []byte, offset int ) uint32 {
  return uint32(buf[offset]) |
    (uint32(buf[offset+1])<<8) |
    (uint32(buf[offset+2])<<16) |
    (uint32(buf[offset+3])<<24)
} // end readU32


func (self *NDSHeader) Read( acc utils.Accessor ) error {

  // Llig capçalera
  var buf [HEADER_SIZE]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil {
    return fmt.Errorf ( "Error while reading NDS header: %w", err )
  }

  // La capçalera DS no té número màgic: el checksum fa de
  // comprovació.
  self.HeaderCRC= uint16(buf[0x15e]) | (uint16(buf[0x15f])<<8)
  if crc16 ( buf[:0x15e] ) != self.HeaderCRC {
    return fmt.Errorf ( "Not a NDS image: wrong header checksum: %w",
      utils.ErrInvalidFormat )
  }

  // Llig valors
  self.GameTitle= string(bytes.TrimRight ( buf[0:12], "\000" ))
  self.GameCode= string(buf[12:16])
  self.MakerCode= string(buf[16:18])
  self.UnitCode= buf[18]
  self.Arm9= readBin ( buf[:], 0x20 )
  self.Arm7= readBin ( buf[:], 0x30 )
  self.FNT= readTable ( buf[:], 0x40 )
  self.FAT= readTable ( buf[:], 0x48 )
  self.Arm9Overlay= readTable ( buf[:], 0x50 )
  self.Arm7Overlay= readTable ( buf[:], 0x58 )
  self.IconOffset= int64(readU32 ( buf[:], 0x68 ))
  self.LogoCRC= uint16(buf[0x15c]) | (uint16(buf[0x15d])<<8)

  // Comprovacions bàsiques.
  file_size:= acc.Len ()
  check:= func(name string, offset int64, size int64) error {
    if offset+size > file_size {
      return fmt.Errorf ( "Error while reading NDS header: %s"+
        " ([%d,%d[) is out of image boundaries ([0,%d[): %w",
        name, offset, offset+size, file_size, utils.ErrInvalidFormat )
    }
    return nil
  }
  if err:= check ( "ARM9", self.Arm9.Offset, self.Arm9.Size ); err != nil {
    return err
  }
  if err:= check ( "ARM7", self.Arm7.Offset, self.Arm7.Size ); err != nil {
    return err
  }
  if err:= check ( "FNT", self.FNT.Offset, self.FNT.Size ); err != nil {
    return err
  }
  if err:= check ( "FAT", self.FAT.Offset, self.FAT.Size ); err != nil {
    return err
  }
  if self.FAT.Size%8 != 0 {
    return fmt.Errorf ( "Error while reading NDS header: FAT size (%d) is"+
      " not a multiple of 8: %w", self.FAT.Size, utils.ErrInvalidFormat )
  }

  return nil

} // end NDSHeader.Read
