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
 *  cci.go - CTR Cart Image format. Camps addicionals de la capçalera
 *           que les imatges de cartutx afigen a NCSD.
 */

package citrus

import (
  "errors"
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type CCIHeader struct {

  NCSDHeader
  PartitionIDs [8]uint64
  TitleVersion uint16
  CardRevision uint16
  TitleID      uint64 // Algo de CVer ??
  VersionCVer  uint16

}


/************/
/* FUNCIONS */
/************/

func (self *CCIHeader) Read( acc utils.Accessor ) error {

  // Capçalera NCSD
  if err:= self.NCSDHeader.Read ( acc ); err != nil {
    return err
  }
  if self.Partitions[0].Type != NCSD_PARTITION_TYPE_NCCH {
    return errors.New (
      "Error while reading CCI header: partition 0 is not a NCCH" )
  }

  // Llig resta capçalera CCI
  var buf [0x1d0]byte
  if err:= acc.Read ( buf[:], 0x160 ); err != nil {
    return fmt.Errorf ( "Error while reading CCI header: %w", err )
  }

  // Partition ID Table
  for i:= 0; i < 8; i++ {
    self.PartitionIDs[i]= uint64(buf[0x30+i*8]) |
      (uint64(buf[0x31+i*8])<<8) |
      (uint64(buf[0x32+i*8])<<16) |
      (uint64(buf[0x33+i*8])<<24) |
      (uint64(buf[0x34+i*8])<<32) |
      (uint64(buf[0x35+i*8])<<40) |
      (uint64(buf[0x36+i*8])<<48) |
      (uint64(buf[0x37+i*8])<<56)
  }

  // Altres
  self.TitleVersion= uint16(buf[0x1b0]) | (uint16(buf[0x1b1])<<8)
  self.CardRevision= uint16(buf[0x1b2]) | (uint16(buf[0x1b3])<<8)
  self.TitleID= uint64(buf[0x1c0]) |
      (uint64(buf[0x1c1])<<8) |
      (uint64(buf[0x1c2])<<16) |
      (uint64(buf[0x1c3])<<24) |
      (uint64(buf[0x1c4])<<32) |
      (uint64(buf[0x1c5])<<40) |
      (uint64(buf[0x1c6])<<48) |
      (uint64(buf[0x1c7])<<56)
  self.VersionCVer= uint16(buf[0x1c8]) | (uint16(buf[0x1c9])<<8)

  return nil

} // end CCIHeader.Read
